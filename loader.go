package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/google/pprof/profile"
	"go.uber.org/zap"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
)

const (
	formatAuto        = "auto"
	formatFlamebearer = "flamebearer"
	formatPprof       = "pprof"
	formatCollapsed   = "collapsed"
)

type sourceConfig struct {
	Format     string        `help:"Input format." default:"auto" enum:"auto,flamebearer,pprof,collapsed"`
	SampleType string        `help:"pprof sample type to show. Defaults to the profile's default type." placeholder:"TYPE"`
	SpyName    string        `help:"Profiler that produced the frame names (gospy, pyspy, rbspy). Controls colouring." placeholder:"SPY"`
	SampleRate int64         `help:"Ticks per second. Overrides the rate stored in the profile."`
	MaxNodes   int           `help:"Keep only the heaviest nodes when building from pprof or collapsed stacks. 0 keeps all." default:"1024"`
	Timeout    time.Duration `help:"HTTP timeout for remote profiles." default:"10s"`
	Retries    int           `help:"HTTP retries for remote profiles." default:"2"`
}

// Loader reads profiles from files, stdin or HTTP and turns any supported
// format into a flamebearer.
type Loader struct {
	cfg  sourceConfig
	http *resty.Client
	l    *zap.Logger
}

func newLoader(cfg sourceConfig, l *zap.Logger) *Loader {
	if cfg.Format == "" {
		cfg.Format = formatAuto
	}
	return &Loader{
		cfg: cfg,
		http: resty.New().
			SetTimeout(cfg.Timeout).
			SetRetryCount(cfg.Retries),
		l: l,
	}
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load reads and decodes source. "-" means stdin.
func (l *Loader) Load(ctx context.Context, source string) (*flamebearer.Profile, error) {
	buf, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}

	p, err := l.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	l.l.Info("Loaded profile",
		zap.String("source", source),
		zap.Int("size", len(buf)),
		zap.Int("levels", len(p.Levels)),
		zap.Int64("ticks", p.NumTicks),
	)
	return p, nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	switch {
	case source == "-":
		buf, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return buf, nil

	case isURL(source):
		res, err := l.http.R().
			SetContext(ctx).
			Get(source)
		if err != nil {
			l.l.Warn("Failed to fetch profile", zap.String("url", source), zap.Error(err))
			return nil, fmt.Errorf("http get: %w", err)
		}
		if res.IsError() {
			return nil, fmt.Errorf("request to %s failed, status: %s", source, res.Status())
		}
		return res.Body(), nil

	default:
		buf, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open profile file: %w", err)
		}
		return buf, nil
	}
}

// Decode converts raw bytes into a flamebearer, detecting the format
// unless one was configured.
func (l *Loader) Decode(buf []byte) (*flamebearer.Profile, error) {
	format := l.cfg.Format
	if format == formatAuto {
		format = sniffFormat(buf)
	}
	l.l.Debug("Decoding profile", zap.String("format", format))

	var (
		p   *flamebearer.Profile
		err error
	)
	switch format {
	case formatFlamebearer:
		p, err = flamebearer.Unmarshal(buf)
	case formatPprof:
		p, err = l.decodePprof(buf)
	case formatCollapsed:
		p, err = l.decodeCollapsed(buf)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if l.cfg.SpyName != "" {
		p.SpyName = l.cfg.SpyName
	}
	if l.cfg.SampleRate > 0 {
		p.SampleRate = l.cfg.SampleRate
	}
	return p, nil
}

func (l *Loader) decodePprof(buf []byte) (*flamebearer.Profile, error) {
	prof, err := profile.Parse(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	tree, rate, err := flamebearer.TreeFromPprof(prof, l.cfg.SampleType)
	if err != nil {
		return nil, err
	}
	return tree.Profile(flamebearer.Options{
		MaxNodes:   l.cfg.MaxNodes,
		SampleRate: rate,
		SpyName:    "gospy",
	}), nil
}

func (l *Loader) decodeCollapsed(buf []byte) (*flamebearer.Profile, error) {
	tree, err := flamebearer.ParseCollapsed(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	return tree.Profile(flamebearer.Options{MaxNodes: l.cfg.MaxNodes}), nil
}

var gzipMagic = []byte{0x1f, 0x8b}

// sniffFormat guesses the format from content: JSON objects are
// flamebearers, gzip or binary data is pprof, and text is collapsed stacks.
func sniffFormat(buf []byte) string {
	trimmed := bytes.TrimLeft(buf, " \t\r\n")
	switch {
	case bytes.HasPrefix(trimmed, []byte("{")):
		return formatFlamebearer
	case bytes.HasPrefix(buf, gzipMagic), !utf8.Valid(buf):
		return formatPprof
	}
	return formatCollapsed
}

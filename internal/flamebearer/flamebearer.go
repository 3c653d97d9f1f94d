// Package flamebearer holds the columnar flame graph encoding: a name
// dictionary plus one flat level of bars per call-stack depth.
package flamebearer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNoData is returned by helpers that need at least one tick of data.
var ErrNoData = errors.New("flamebearer: no profiling data")

// tupleSize is the number of integers per bar on the wire:
// offset, width, self, name index.
const tupleSize = 4

// Bar is one node of the call tree at a given depth.
type Bar struct {
	Offset int64
	Width  int64
	Self   int64
	Name   int
}

// End returns the first tick after the bar.
func (b Bar) End() int64 {
	return b.Offset + b.Width
}

// Level is one depth of the call tree, sorted by Offset.
type Level []Bar

// Profile is a decoded flamebearer. Names are shared between levels;
// bars refer to them by index.
type Profile struct {
	Names      []string
	Levels     []Level
	NumTicks   int64
	MaxSelf    int64
	SampleRate int64
	SpyName    string

	// Sources maps frame names to where their function is defined. Only
	// builders that know file positions fill it; it is not part of the
	// wire format.
	Sources map[string]Source
}

// Source is the definition site of a frame's function.
type Source struct {
	Filename string
	Line     int
}

// Empty reports whether there is nothing to draw or aggregate.
func (p *Profile) Empty() bool {
	return p == nil || len(p.Names) == 0 || len(p.Levels) == 0 || p.NumTicks <= 0
}

// Name returns the label for a dictionary index, or "" when the index is
// out of range.
func (p *Profile) Name(k int) string {
	if p == nil || k < 0 || k >= len(p.Names) {
		return ""
	}
	return p.Names[k]
}

// Bar looks up the bar at depth i with wire index j. j must be a multiple
// of four, as returned by level search.
func (p *Profile) Bar(i, j int) (Bar, bool) {
	if p == nil || i < 0 || i >= len(p.Levels) || j < 0 || j%tupleSize != 0 {
		return Bar{}, false
	}
	level := p.Levels[i]
	if j/tupleSize >= len(level) {
		return Bar{}, false
	}
	return level[j/tupleSize], true
}

// WireIndex converts a bar position within a level to its wire index.
func WireIndex(bar int) int {
	return bar * tupleSize
}

////////////////////////////////////////////////////////////////////////////////

type wireProfile struct {
	Names      []string  `json:"names"`
	Levels     [][]int64 `json:"levels"`
	NumTicks   int64     `json:"numTicks"`
	MaxSelf    int64     `json:"maxSelf,omitempty"`
	SampleRate int64     `json:"sampleRate,omitempty"`
	SpyName    string    `json:"spyName,omitempty"`
}

type wireMetadata struct {
	SpyName    string `json:"spyName"`
	SampleRate int64  `json:"sampleRate"`
}

// document accepts both a bare flamebearer and the render API envelope
// {"flamebearer": {...}, "metadata": {...}}.
type document struct {
	wireProfile
	Flamebearer *wireProfile  `json:"flamebearer"`
	Metadata    *wireMetadata `json:"metadata"`
}

// Decode reads a flamebearer JSON document. A document without names or
// levels decodes to an empty profile rather than an error; only malformed
// JSON is reported.
func Decode(r io.Reader) (*Profile, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("flamebearer: decode: %w", err)
	}

	wire := doc.wireProfile
	if doc.Flamebearer != nil {
		wire = *doc.Flamebearer
	}
	if doc.Metadata != nil {
		if wire.SpyName == "" {
			wire.SpyName = doc.Metadata.SpyName
		}
		if wire.SampleRate == 0 {
			wire.SampleRate = doc.Metadata.SampleRate
		}
	}

	return fromWire(&wire), nil
}

// Unmarshal is Decode over a byte slice.
func Unmarshal(buf []byte) (*Profile, error) {
	return Decode(bytes.NewReader(buf))
}

func fromWire(w *wireProfile) *Profile {
	p := &Profile{
		Names:      w.Names,
		NumTicks:   w.NumTicks,
		MaxSelf:    w.MaxSelf,
		SampleRate: w.SampleRate,
		SpyName:    w.SpyName,
	}
	if w.Names == nil || w.Levels == nil {
		return p
	}

	p.Levels = make([]Level, len(w.Levels))
	for i, raw := range w.Levels {
		level := make(Level, 0, len(raw)/tupleSize)
		// A trailing partial tuple is ignored.
		for j := 0; j+tupleSize <= len(raw); j += tupleSize {
			level = append(level, Bar{
				Offset: raw[j],
				Width:  raw[j+1],
				Self:   raw[j+2],
				Name:   int(raw[j+3]),
			})
		}
		p.Levels[i] = level
	}
	return p
}

// Encode writes p in the flat wire format.
func Encode(w io.Writer, p *Profile) error {
	wire := wireProfile{
		Names:      p.Names,
		Levels:     make([][]int64, len(p.Levels)),
		NumTicks:   p.NumTicks,
		MaxSelf:    p.MaxSelf,
		SampleRate: p.SampleRate,
		SpyName:    p.SpyName,
	}
	for i, level := range p.Levels {
		raw := make([]int64, 0, len(level)*tupleSize)
		for _, bar := range level {
			raw = append(raw, bar.Offset, bar.Width, bar.Self, int64(bar.Name))
		}
		wire.Levels[i] = raw
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&wire)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamegraph"
)

// CLI is the top-level command-line interface.
type CLI struct {
	Config kong.ConfigFlag `help:"YAML file with flag defaults." placeholder:"FILE"`

	Log    logConfig    `embed:"" group:"log" prefix:"log-"`
	Source sourceConfig `embed:"" group:"source"`

	View    viewCmd    `cmd:"" default:"withargs" help:"Browse a profile as an interactive flame graph"`
	Render  renderCmd  `cmd:"" help:"Render a flame graph to PNG"`
	Table   tableCmd   `cmd:"" help:"Print the per-function table"`
	Convert convertCmd `cmd:"" help:"Convert a profile to flamebearer JSON"`
	MCP     mcpCmd     `cmd:"" name:"mcp" help:"Serve flame graph tools over MCP on stdio"`
}

type viewCmd struct {
	Profile    string        `arg:"" help:"Profile file, URL, or '-' for stdin."`
	Refresh    time.Duration `help:"Reload the profile at this interval. 0 disables."`
	CellWidth  float64       `help:"Plot pixels per terminal column." default:"8"`
	Mode       string        `help:"Panes to show." default:"both" enum:"both,icicle,table"`
	SourceRoot string        `help:"Directory that relative source paths in frame names are resolved against." type:"path" default:"."`
}

func (c *viewCmd) Run(ctx context.Context, loader *Loader, log *zap.Logger) error {
	mode, _ := flamegraph.ParseViewMode(c.Mode)

	var p *tea.Program
	post := func(f func()) {
		if p != nil {
			p.Send(runMsg(f))
		}
	}
	m := newModel(ctx, modelConfig{
		Source:     c.Profile,
		SourceRoot: c.SourceRoot,
		Refresh:    c.Refresh,
		CellWidth:  c.CellWidth,
		View:       mode,
	}, loader, log, post)

	p = tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// run parses args, sets up logging and the loader, and executes the
// selected command.
func run(ctx context.Context, stdout io.Writer, args ...string) error {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name(appName),
		kong.Description("Interactive flame graphs for pprof, flamebearer and collapsed-stack profiles."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}),
		kong.Configuration(loadYAMLConfig, defaultConfigPath()),
		kong.Writers(stdout, os.Stderr),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	log, err := newLogger(cli.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Debug("Starting", zap.String("command", ktx.Command()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ktx.BindTo(ctx, (*context.Context)(nil))
	ktx.BindTo(stdout, (*io.Writer)(nil))
	return ktx.Run(newLoader(cli.Source, log), log)
}

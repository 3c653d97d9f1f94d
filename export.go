package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
	"github.com/Oloruntobi1/tui-flamegraph/internal/flamegraph"
)

type renderOptions struct {
	Width      float64
	PixelRatio float64
	Query      string
	// Focus zooms into the first bar with this exact name.
	Focus string
}

// renderImage paints p off-screen the same way the interactive view does.
func renderImage(p *flamebearer.Profile, opts renderOptions, log *zap.Logger) (*image.RGBA, error) {
	raster := flamegraph.NewRaster(opts.PixelRatio)
	raster.SetBackground(color.White)

	ctrl := flamegraph.NewController(raster, flamegraph.Options{Logger: log})
	defer ctrl.Close()

	ctrl.SetWidth(opts.Width)
	ctrl.SetProfile(p)
	if opts.Focus != "" {
		i, j, ok := findBar(p, opts.Focus)
		if !ok {
			return nil, fmt.Errorf("no frame named %q", opts.Focus)
		}
		ctrl.ZoomTo(i, j)
	}
	if opts.Query != "" {
		ctrl.SetQuery(opts.Query)
	}
	if !ctrl.HasData() {
		return nil, flamebearer.ErrNoData
	}
	return raster.Image(), nil
}

// findBar returns the depth and wire index of the shallowest, leftmost bar
// named name.
func findBar(p *flamebearer.Profile, name string) (int, int, bool) {
	if p.Empty() {
		return 0, 0, false
	}
	for i, level := range p.Levels {
		for b, bar := range level {
			if p.Name(bar.Name) == name {
				return i, flamebearer.WireIndex(b), true
			}
		}
	}
	return 0, 0, false
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// tableRows aggregates and sorts p, keeping at most limit rows when limit
// is positive.
func tableRows(p *flamebearer.Profile, s flamegraph.TableSort, limit int) []flamegraph.Row {
	rows := flamegraph.Aggregate(p)
	s.Sort(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// formatTable renders rows as a bordered text table.
func formatTable(p *flamebearer.Profile, rows []flamegraph.Row) string {
	df := flamegraph.NewDurationFormatter(flamegraph.TicksToSeconds(p.NumTicks, p.SampleRate))
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cell }).
		Headers("Location", "Self", "Total")
	for _, r := range rows {
		t.Row(r.Name, formatCell(df, r.Self, p), formatCell(df, r.Total, p))
	}
	return t.String()
}

////////////////////////////////////////////////////////////////////////////////

type renderCmd struct {
	Profile    string  `arg:"" help:"Profile file, URL, or '-' for stdin."`
	Output     string  `short:"o" help:"PNG file to write." default:"flamegraph.png" type:"path"`
	Width      float64 `help:"Plot width in pixels." default:"1200"`
	PixelRatio float64 `help:"Device pixel ratio. Above 1 doubles the image resolution." default:"1"`
	Query      string  `help:"Highlight frames containing this text."`
	Focus      string  `help:"Zoom into the first frame with this exact name."`
}

func (c *renderCmd) Run(ctx context.Context, loader *Loader, log *zap.Logger) error {
	p, err := loader.Load(ctx, c.Profile)
	if err != nil {
		return err
	}
	img, err := renderImage(p, renderOptions{
		Width:      c.Width,
		PixelRatio: c.PixelRatio,
		Query:      c.Query,
		Focus:      c.Focus,
	}, log)
	if err != nil {
		return err
	}
	if err := writePNG(c.Output, img); err != nil {
		return err
	}
	log.Info("Rendered flame graph", zap.String("output", c.Output), zap.Int("height", img.Bounds().Dy()))
	return nil
}

type tableCmd struct {
	Profile   string `arg:"" help:"Profile file, URL, or '-' for stdin."`
	Sort      string `help:"Column to sort by." default:"self" enum:"name,self,total"`
	Ascending bool   `help:"Sort ascending instead of descending."`
	Limit     int    `help:"Print at most this many rows. 0 prints all." default:"0"`
}

func (c *tableCmd) Run(ctx context.Context, loader *Loader, out io.Writer) error {
	p, err := loader.Load(ctx, c.Profile)
	if err != nil {
		return err
	}
	if p.Empty() {
		_, err := fmt.Fprintln(out, noDataMessage)
		return err
	}
	key, _ := flamegraph.ParseSortKey(c.Sort)
	s := flamegraph.TableSort{Key: key}
	if c.Ascending {
		s.Direction = flamegraph.Ascending
	}
	_, err = fmt.Fprintln(out, formatTable(p, tableRows(p, s, c.Limit)))
	return err
}

type convertCmd struct {
	Profile string `arg:"" help:"Profile file, URL, or '-' for stdin."`
	Output  string `short:"o" help:"File to write. Defaults to stdout." type:"path"`
}

func (c *convertCmd) Run(ctx context.Context, loader *Loader, out io.Writer) (err error) {
	p, err := loader.Load(ctx, c.Profile)
	if err != nil {
		return err
	}
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = cerr
			}
		}()
		out = f
	}
	return flamebearer.Encode(out, p)
}

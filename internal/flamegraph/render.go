package flamegraph

import (
	"image/color"
	"math"
	"strings"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
)

const (
	// RowHeight is the height of one call-stack level in pixels.
	RowHeight = 18
	// CollapseThreshold is the widest a bar can be and still get merged
	// with its neighbours.
	CollapseThreshold = 5
	// LabelThreshold is the narrowest bar that gets a text label.
	LabelThreshold = 20
	// Gap separates neighbouring bars.
	Gap = 0.5
	// CornerRadius rounds bar corners.
	CornerRadius = 3

	labelPadding = 3
)

// RenderState is everything a frame depends on. It is built fresh for
// every frame and never mutated by the renderer.
type RenderState struct {
	Profile  *flamebearer.Profile
	Viewport Viewport
	Query    string
	Width    float64
}

// Matches reports whether name is highlighted by the current query.
func (s RenderState) Matches(name string) bool {
	return s.Query != "" && strings.Contains(name, s.Query)
}

// SurfaceHeight is the height needed to show every level from the top of
// the viewport down.
func SurfaceHeight(p *flamebearer.Profile, v Viewport) float64 {
	if p.Empty() {
		return 0
	}
	rows := len(p.Levels) - v.TopLevel
	if rows < 0 {
		rows = 0
	}
	return float64(rows * RowHeight)
}

// Render paints one frame of st onto c. It reports false, leaving the
// canvas cleared, when there is nothing to draw.
func Render(c Canvas, st RenderState) bool {
	p := st.Profile
	if p.Empty() || st.Viewport.TopLevel >= len(p.Levels) {
		c.Resize(math.Max(st.Width, 0), 0)
		return false
	}
	t, ok := NewTransform(st.Width, p.NumTicks, st.Viewport)
	if !ok {
		c.Resize(math.Max(st.Width, 0), 0)
		return false
	}
	c.Resize(st.Width, SurfaceHeight(p, st.Viewport))

	df := NewDurationFormatter(TicksToSeconds(p.NumTicks, p.SampleRate))
	for row, level := range p.Levels[st.Viewport.TopLevel:] {
		renderLevel(c, st, t, df, row, level)
	}
	return true
}

func renderLevel(c Canvas, st RenderState, t Transform, df DurationFormatter, row int, level flamebearer.Level) {
	p := st.Profile
	y := float64(row * RowHeight)

	for j := 0; j < len(level); j++ {
		bar := level[j]
		name := p.Name(bar.Name)
		matched := st.Matches(name)

		offset, ticks := bar.Offset, bar.Width
		collapsed := t.Span(ticks) <= CollapseThreshold
		if collapsed {
			// The group keeps the match status of its first bar.
			for j+1 < len(level) {
				next := level[j+1]
				if offset+ticks != next.Offset ||
					t.Span(next.Width) > CollapseThreshold ||
					st.Matches(p.Name(next.Name)) != matched {
					break
				}
				j++
				ticks += next.Width
			}
		}

		x := t.TickToX(offset)
		w := t.Span(ticks)
		if !collapsed {
			w -= Gap
		}
		h := float64(RowHeight) - Gap
		if x+w < 0 || x > t.Width() {
			continue
		}

		rect := Rect{X: x, Y: y, W: w, H: h}
		c.FillRoundRect(rect, cornerRadius(w, h), barColor(st, row, name, matched, collapsed))

		if !collapsed && w >= LabelThreshold {
			label := name + " (" + FormatPercent(float64(ticks)/float64(p.NumTicks)) + ", " +
				df.Format(TicksToSeconds(ticks, p.SampleRate)) + ")"
			c.FillText(label, math.Round(math.Max(x, 0)+labelPadding), y+h/2, rect, LabelColor)
		}
	}
}

func barColor(st RenderState, row int, name string, matched, collapsed bool) color.NRGBA {
	switch {
	case collapsed:
		return MutedColor
	case st.Query != "" && matched:
		return HighlightColor
	case st.Query != "":
		return MutedColor
	}
	alpha := 1.0
	if st.Viewport.SelectedLevel > row {
		alpha = DimmedAlpha
	}
	return PackageColor(flamebearer.PackageName(st.Profile.SpyName, name), alpha)
}

func cornerRadius(w, h float64) float64 {
	return math.Max(0, math.Min(CornerRadius, math.Min(w, h)/2))
}

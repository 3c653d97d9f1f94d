package flamegraph

import (
	"math"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
)

// Viewport is the zoom window: the selected depth and the fraction of the
// tick axis that spans the plot.
type Viewport struct {
	TopLevel      int
	SelectedLevel int
	RangeMin      float64
	RangeMax      float64
}

// FullView shows the whole profile with nothing selected.
func FullView() Viewport {
	return Viewport{RangeMin: 0, RangeMax: 1}
}

// ZoomTo narrows the window to the bar at depth i with wire index j. It
// reports false and leaves v unchanged when the bar does not exist or has
// no width, since a zero-width window has no pixel transform.
func (v Viewport) ZoomTo(p *flamebearer.Profile, i, j int) (Viewport, bool) {
	if p.Empty() {
		return v, false
	}
	bar, ok := p.Bar(i, j)
	if !ok || bar.Width <= 0 {
		return v, false
	}
	numTicks := float64(p.NumTicks)
	return Viewport{
		SelectedLevel: i,
		TopLevel:      0,
		RangeMin:      float64(bar.Offset) / numTicks,
		RangeMax:      float64(bar.End()) / numTicks,
	}, true
}

// Reset returns to the full view.
func (v Viewport) Reset() Viewport {
	return FullView()
}

// ResetVisible reports whether a "reset view" affordance should be shown.
func (v Viewport) ResetVisible() bool {
	return v.SelectedLevel != 0
}

// Valid reports whether the window is a non-empty sub-range of [0, 1].
func (v Viewport) Valid() bool {
	return v.TopLevel >= 0 && v.SelectedLevel >= 0 &&
		v.RangeMin >= 0 && v.RangeMax <= 1 && v.RangeMax > v.RangeMin
}

////////////////////////////////////////////////////////////////////////////////

// Transform maps ticks to plot pixels for one frame.
type Transform struct {
	width     float64
	numTicks  float64
	rangeMin  float64
	pxPerTick float64
}

// NewTransform derives the tick-to-pixel mapping. It reports false for an
// empty profile or an invalid window, where no finite mapping exists.
func NewTransform(width float64, numTicks int64, v Viewport) (Transform, bool) {
	if numTicks <= 0 || width <= 0 || !v.Valid() {
		return Transform{}, false
	}
	t := Transform{
		width:    width,
		numTicks: float64(numTicks),
		rangeMin: v.RangeMin,
	}
	t.pxPerTick = width / t.numTicks / (v.RangeMax - v.RangeMin)
	if math.IsInf(t.pxPerTick, 0) || math.IsNaN(t.pxPerTick) {
		return Transform{}, false
	}
	return t, true
}

// Width is the plot width in pixels.
func (t Transform) Width() float64 {
	return t.width
}

// PxPerTick is the horizontal scale.
func (t Transform) PxPerTick() float64 {
	return t.pxPerTick
}

// TickToX returns the plot x coordinate of a tick.
func (t Transform) TickToX(tick int64) float64 {
	return (float64(tick) - t.numTicks*t.rangeMin) * t.pxPerTick
}

// Span returns the pixel width of a tick count.
func (t Transform) Span(ticks int64) float64 {
	return float64(ticks) * t.pxPerTick
}

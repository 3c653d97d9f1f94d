package flamegraph

import (
	"image/color"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
)

type rectCall struct {
	Rect   Rect
	Radius float64
	Color  color.NRGBA
}

type textCall struct {
	Text string
	X, Y float64
	Clip Rect
}

// recordCanvas keeps every drawing call of the last frame.
type recordCanvas struct {
	width, height float64
	resizes       int
	rects         []rectCall
	texts         []textCall
}

func (c *recordCanvas) Resize(width, height float64) {
	c.width, c.height = width, height
	c.resizes++
	c.rects = nil
	c.texts = nil
}

func (c *recordCanvas) FillRoundRect(r Rect, radius float64, col color.NRGBA) {
	c.rects = append(c.rects, rectCall{Rect: r, Radius: radius, Color: col})
}

func (c *recordCanvas) FillText(text string, x, y float64, clip Rect, _ color.NRGBA) {
	c.texts = append(c.texts, textCall{Text: text, X: x, Y: y, Clip: clip})
}

func (c *recordCanvas) MeasureText(text string) float64 {
	return float64(len(text))
}

func (c *recordCanvas) row(i int) []rectCall {
	var out []rectCall
	for _, r := range c.rects {
		if r.Rect.Y == float64(i*RowHeight) {
			out = append(out, r)
		}
	}
	return out
}

// sampleProfile is a root "total" with children "a" and "b".
func sampleProfile() *flamebearer.Profile {
	return &flamebearer.Profile{
		Names: []string{"total", "a", "b"},
		Levels: []flamebearer.Level{
			{{Offset: 0, Width: 100, Self: 10, Name: 0}},
			{{Offset: 0, Width: 60, Self: 60, Name: 1}, {Offset: 60, Width: 40, Self: 40, Name: 2}},
		},
		NumTicks:   100,
		SampleRate: 100,
	}
}

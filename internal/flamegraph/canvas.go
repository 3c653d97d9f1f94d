package flamegraph

import "image/color"

// Rect is an axis-aligned rectangle in plot pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside the half-open rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Canvas is a raster surface the renderer paints on. Coordinates are plot
// pixels; implementations handle any device scaling.
type Canvas interface {
	// Resize clears the surface and sets its logical size.
	Resize(width, height float64)
	// FillRoundRect fills r with corners of the given radius.
	FillRoundRect(r Rect, radius float64, c color.NRGBA)
	// FillText draws text with its left edge at x and its vertical middle
	// at y, clipped to clip.
	FillText(text string, x, y float64, clip Rect, c color.NRGBA)
	// MeasureText returns the width text would occupy.
	MeasureText(text string) float64
}

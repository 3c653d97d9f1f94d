package flamegraph

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// labelFontSize is the label size in logical pixels.
const labelFontSize = 12

// Raster is a Canvas backed by an in-memory RGBA image. With a pixel ratio
// above 1 the backing image has twice the logical size and every drawing
// call is scaled by 2.
type Raster struct {
	scale      float64
	img        *image.RGBA
	face       font.Face
	background color.Color
}

// NewRaster creates an empty raster for a display with the given device
// pixel ratio.
func NewRaster(pixelRatio float64) *Raster {
	scale := 1.0
	if pixelRatio > 1 {
		scale = 2
	}
	return &Raster{
		scale: scale,
		img:   image.NewRGBA(image.Rectangle{}),
		face:  newLabelFace(scale),
	}
}

func newLabelFace(scale float64) font.Face {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    labelFontSize,
		DPI:     72 * scale,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// SetBackground makes Resize fill the surface with c instead of leaving it
// transparent.
func (r *Raster) SetBackground(c color.Color) {
	r.background = c
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Scale returns the device scale factor.
func (r *Raster) Scale() float64 {
	return r.scale
}

func (r *Raster) Resize(width, height float64) {
	w := int(math.Ceil(math.Max(width, 0) * r.scale))
	h := int(math.Ceil(math.Max(height, 0) * r.scale))
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	if r.background != nil {
		draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
	}
}

func (r *Raster) FillRoundRect(rect Rect, radius float64, c color.NRGBA) {
	s := r.scale
	x, y, w, h := rect.X*s, rect.Y*s, rect.W*s, rect.H*s
	if w <= 0 || h <= 0 {
		return
	}

	bounds := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	).Intersect(r.img.Bounds())
	if bounds.Empty() {
		return
	}

	rad := math.Min(radius*s, math.Min(w, h)/2)

	// Path coordinates are relative to the rasterizer's own bounds.
	ox, oy := float64(bounds.Min.X), float64(bounds.Min.Y)
	pt := func(px, py float64) (float32, float32) {
		return float32(px - ox), float32(py - oy)
	}
	right, bottom := x+w, y+h

	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.MoveTo(pt(x+rad, y))
	z.LineTo(pt(right-rad, y))
	quadTo(z, pt, right, y, right, y+rad)
	z.LineTo(pt(right, bottom-rad))
	quadTo(z, pt, right, bottom, right-rad, bottom)
	z.LineTo(pt(x+rad, bottom))
	quadTo(z, pt, x, bottom, x, bottom-rad)
	z.LineTo(pt(x, y+rad))
	quadTo(z, pt, x, y, x+rad, y)
	z.ClosePath()
	z.Draw(r.img, bounds, image.NewUniform(c), image.Point{})
}

func quadTo(z *vector.Rasterizer, pt func(x, y float64) (float32, float32), bx, by, cx, cy float64) {
	x1, y1 := pt(bx, by)
	x2, y2 := pt(cx, cy)
	z.QuadTo(x1, y1, x2, y2)
}

func (r *Raster) FillText(text string, x, y float64, clip Rect, c color.NRGBA) {
	s := r.scale
	clipRect := image.Rect(
		int(math.Floor(clip.X*s)), int(math.Floor(clip.Y*s)),
		int(math.Ceil((clip.X+clip.W)*s)), int(math.Ceil((clip.Y+clip.H)*s)),
	).Intersect(r.img.Bounds())
	if clipRect.Empty() {
		return
	}

	dst, ok := r.img.SubImage(clipRect).(*image.RGBA)
	if !ok {
		return
	}
	m := r.face.Metrics()
	baseline := y*s + float64(m.Ascent-m.Descent)/64/2

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * s * 64), Y: fixed.Int26_6(baseline * 64)},
	}
	d.DrawString(text)
}

func (r *Raster) MeasureText(text string) float64 {
	return float64(font.MeasureString(r.face, text)) / 64 / r.scale
}

package flamegraph

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/zeebo/xxh3"
)

var (
	// HighlightColor fills bars that match the search query.
	HighlightColor = color.NRGBA{R: 0x48, G: 0xce, B: 0x73, A: 0xff}
	// LabelColor is used for bar labels.
	LabelColor = color.NRGBA{A: 0xff}
	// MutedColor fills collapsed groups and bars that miss the query.
	MutedColor = Greyscale(200, 0.66)
)

// DimmedAlpha is applied to ancestors above the zoomed-in level.
const DimmedAlpha = 0.33

const paletteSize = 32

var palette = buildPalette(paletteSize)

// buildPalette spreads warm-to-cool hues evenly in HCL space so that
// neighbouring entries stay distinguishable.
func buildPalette(n int) []colorful.Color {
	colors := make([]colorful.Color, n)
	for i := range colors {
		hue := math.Mod(float64(i)*360/float64(n)+20, 360)
		colors[i] = colorful.Hcl(hue, 0.45, 0.78).Clamped()
	}
	return colors
}

// Greyscale returns an opaque-ish grey of value v.
func Greyscale(v uint8, alpha float64) color.NRGBA {
	return color.NRGBA{R: v, G: v, B: v, A: alphaByte(alpha)}
}

// PackageColor deterministically maps a package name to a palette colour.
func PackageColor(pkg string, alpha float64) color.NRGBA {
	c := palette[xxh3.HashString(pkg)%uint64(len(palette))]
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alphaByte(alpha)}
}

func alphaByte(alpha float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(alpha, 1)) * 0xff))
}

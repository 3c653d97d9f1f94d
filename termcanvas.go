package main

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamegraph"
)

const defaultCellWidth = 8

// tooltipPadding is the number of blank cells on each side of tooltip text.
const tooltipPadding = 1

type cell struct {
	bg colorful.Color
	fg colorful.Color
	ch rune
}

// termCanvas is a flamegraph.Canvas made of terminal cells. Each cell is
// cellWidth plot pixels wide and one row tall, and is painted when its
// centre falls inside a shape.
type termCanvas struct {
	cellWidth float64
	bg        colorful.Color
	fg        colorful.Color
	tooltipBg colorful.Color
	tooltipFg colorful.Color

	cols, rows int
	cells      [][]cell
}

func newTermCanvas(cellWidth float64, styles Styles) *termCanvas {
	if cellWidth <= 0 {
		cellWidth = defaultCellWidth
	}
	return &termCanvas{
		cellWidth: cellWidth,
		bg:        hexColor(styles.GraphBackground),
		fg:        colorful.Color{R: 1, G: 1, B: 1},
		tooltipBg: hexColor(styles.TooltipBackground),
		tooltipFg: hexColor(styles.TooltipForeground),
	}
}

func hexColor(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{}
	}
	return col
}

// Cols is the plot width in cells.
func (c *termCanvas) Cols() int {
	return c.cols
}

// Rows is the plot height in cells.
func (c *termCanvas) Rows() int {
	return c.rows
}

// PixelWidth converts a width in cells to plot pixels.
func (c *termCanvas) PixelWidth(cols int) float64 {
	return float64(cols) * c.cellWidth
}

// PixelAt maps a cell to the plot pixel at its centre.
func (c *termCanvas) PixelAt(col, row int) (float64, float64) {
	return float64(col)*c.cellWidth + c.cellWidth/2, float64(row*flamegraph.RowHeight) + flamegraph.RowHeight/2
}

func (c *termCanvas) Resize(width, height float64) {
	c.cols = int(math.Ceil(math.Max(width, 0) / c.cellWidth))
	c.rows = int(math.Ceil(math.Max(height, 0) / flamegraph.RowHeight))
	c.cells = make([][]cell, c.rows)
	for r := range c.cells {
		row := make([]cell, c.cols)
		for i := range row {
			row[i] = cell{bg: c.bg, fg: c.fg, ch: ' '}
		}
		c.cells[r] = row
	}
}

// span returns the cells whose centres may fall within [lo, hi).
func span(lo, hi, size float64, n int) (int, int) {
	first := max(int(math.Floor(lo/size)), 0)
	last := min(int(math.Floor(hi/size)), n-1)
	return first, last
}

func (c *termCanvas) FillRoundRect(r flamegraph.Rect, _ float64, col color.NRGBA) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	src := colorful.Color{R: float64(col.R) / 0xff, G: float64(col.G) / 0xff, B: float64(col.B) / 0xff}
	alpha := float64(col.A) / 0xff

	painted := false
	row0, row1 := span(r.Y, r.Y+r.H, flamegraph.RowHeight, c.rows)
	col0, col1 := span(r.X, r.X+r.W, c.cellWidth, c.cols)
	for row := row0; row <= row1; row++ {
		for i := col0; i <= col1; i++ {
			x, y := c.PixelAt(i, row)
			if !r.Contains(x, y) {
				continue
			}
			c.blend(i, row, src, alpha)
			painted = true
		}
	}

	// Shapes narrower than a cell still leave a mark in the cell under
	// their centre.
	if !painted {
		i := int(math.Floor((r.X + r.W/2) / c.cellWidth))
		row := int(math.Floor((r.Y + r.H/2) / flamegraph.RowHeight))
		if i >= 0 && i < c.cols && row >= 0 && row < c.rows {
			c.blend(i, row, src, alpha)
		}
	}
}

func (c *termCanvas) blend(col, row int, src colorful.Color, alpha float64) {
	dst := &c.cells[row][col]
	dst.bg = dst.bg.BlendRgb(src, alpha).Clamped()
}

func (c *termCanvas) FillText(text string, x, y float64, clip flamegraph.Rect, col color.NRGBA) {
	row := int(math.Floor(y / flamegraph.RowHeight))
	if row < 0 || row >= c.rows {
		return
	}
	fg := colorful.Color{R: float64(col.R) / 0xff, G: float64(col.G) / 0xff, B: float64(col.B) / 0xff}

	// First cell whose centre is inside the clip.
	first := int(math.Ceil(clip.X/c.cellWidth - 0.5))
	i := max(int(math.Floor(x/c.cellWidth)), first, 0)
	for _, r := range text {
		if i >= c.cols {
			return
		}
		if cx, _ := c.PixelAt(i, row); cx >= clip.X+clip.W {
			return
		}
		if runewidth.RuneWidth(r) != 1 {
			r = '?'
		}
		c.cells[row][i].ch = r
		c.cells[row][i].fg = fg
		i++
	}
}

func (c *termCanvas) MeasureText(text string) float64 {
	return float64(runewidth.StringWidth(text)) * c.cellWidth
}

// MeasureTooltip is the pixel width of a tooltip line including padding.
func (c *termCanvas) MeasureTooltip(text string) float64 {
	return float64(runewidth.StringWidth(text)+2*tooltipPadding) * c.cellWidth
}

////////////////////////////////////////////////////////////////////////////////

// View renders the cells with the hover overlays of in on top.
func (c *termCanvas) View(in flamegraph.Interaction) string {
	if c.rows == 0 || c.cols == 0 {
		return ""
	}

	grid := make([][]cell, c.rows)
	for r := range c.cells {
		grid[r] = append([]cell(nil), c.cells[r]...)
	}

	if hl := in.Highlight; hl.Visible {
		box := flamegraph.Rect{X: hl.Left, Y: hl.Top, W: hl.Width, H: hl.Height}
		white := colorful.Color{R: 1, G: 1, B: 1}
		for r := range grid {
			for i := range grid[r] {
				if x, y := c.PixelAt(i, r); box.Contains(x, y) {
					grid[r][i].bg = grid[r][i].bg.BlendRgb(white, 0.35).Clamped()
				}
			}
		}
	}

	if tt := in.Tooltip; tt.Visible {
		c.drawTooltip(grid, tt)
	}

	lines := make([]string, len(grid))
	for r, row := range grid {
		lines[r] = renderCells(row)
	}
	return strings.Join(lines, "\n")
}

func (c *termCanvas) drawTooltip(grid [][]cell, tt flamegraph.Tooltip) {
	texts := []string{tt.Title, tt.Subtitle}
	width := 0
	for _, t := range texts {
		width = max(width, runewidth.StringWidth(t)+2*tooltipPadding)
	}
	width = min(width, c.cols)
	if width <= 2*tooltipPadding {
		return
	}

	col0 := max(min(int(math.Floor(tt.Left/c.cellWidth)), c.cols-width), 0)
	row0 := int(math.Floor(tt.Top / flamegraph.RowHeight))
	if row0+len(texts) > c.rows {
		row0 = c.rows - len(texts)
	}
	row0 = max(row0, 0)

	for k, text := range texts {
		r := row0 + k
		if r >= c.rows {
			return
		}
		runes := []rune(strings.Repeat(" ", tooltipPadding) + runewidth.Truncate(text, width-2*tooltipPadding, "…"))
		for i := 0; i < width; i++ {
			ch := ' '
			if i < len(runes) {
				ch = runes[i]
			}
			grid[r][col0+i] = cell{bg: c.tooltipBg, fg: c.tooltipFg, ch: ch}
		}
	}
}

// renderCells styles runs of cells sharing colours.
func renderCells(row []cell) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].bg == row[start].bg && row[i].fg == row[start].fg {
			continue
		}
		runes := make([]rune, 0, i-start)
		for _, cl := range row[start:i] {
			runes = append(runes, cl.ch)
		}
		b.WriteString(lipgloss.NewStyle().
			Background(lipgloss.Color(row[start].bg.Hex())).
			Foreground(lipgloss.Color(row[start].fg.Hex())).
			Render(string(runes)))
		start = i
	}
	return b.String()
}

package flamegraph

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
)

// ResizeDelay is how long the controller waits for resizing to settle
// before repainting.
const ResizeDelay = 100 * time.Millisecond

const (
	tooltipOffsetX = 15
	tooltipOffsetY = 12
)

// Options configure a Controller.
type Options struct {
	// Post runs f on the host's event loop. Debounced repaints are
	// delivered through it from the timer goroutine. Without Post, Resize
	// applies immediately on the caller's goroutine.
	Post func(f func())
	// Measure returns the rendered width of a tooltip line. Defaults to the
	// canvas text metrics.
	Measure func(text string) float64
	// ResizeDelay overrides the default resize debounce delay.
	ResizeDelay time.Duration
	Logger      *zap.Logger
}

// Highlight is the box drawn over the hovered bar.
type Highlight struct {
	Visible                  bool
	Left, Top, Width, Height float64
}

// Tooltip describes the hovered bar next to the pointer.
type Tooltip struct {
	Visible   bool
	Title     string
	Subtitle  string
	Left, Top float64
}

// Interaction is the pointer and keyboard driven state of the graph.
type Interaction struct {
	Query     string
	Highlight Highlight
	Tooltip   Tooltip
}

// Hit is a bar resolved from plot coordinates.
type Hit struct {
	Level int
	// Index is the wire index of the bar within its level.
	Index int
	Bar   flamebearer.Bar
	Name  string
}

// Controller owns the viewport and interaction state of one flame graph
// and repaints its canvas whenever either changes. It is not safe for
// concurrent use; all calls must come from the host's event loop.
type Controller struct {
	canvas  Canvas
	measure func(string) float64
	log     *zap.Logger
	resize  *debouncer

	profile     *flamebearer.Profile
	viewport    Viewport
	interaction Interaction
	width       float64
	drawn       bool
}

func NewController(c Canvas, opts Options) *Controller {
	if opts.Measure == nil {
		opts.Measure = c.MeasureText
	}
	if opts.ResizeDelay <= 0 {
		opts.ResizeDelay = ResizeDelay
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctrl := &Controller{
		canvas:   c,
		measure:  opts.Measure,
		log:      opts.Logger,
		viewport: FullView(),
	}
	if opts.Post != nil {
		ctrl.resize = newDebouncer(opts.ResizeDelay, opts.Post)
	}
	return ctrl
}

// SetProfile replaces the data. The zoom survives when it still refers to
// an existing level, otherwise the view is reset.
func (c *Controller) SetProfile(p *flamebearer.Profile) {
	c.profile = p
	if p.Empty() || c.viewport.SelectedLevel >= len(p.Levels) {
		c.viewport = FullView()
	}
	c.clearHover()
	c.Render()
}

func (c *Controller) Profile() *flamebearer.Profile {
	return c.profile
}

// SetWidth sets the plot width and repaints immediately.
func (c *Controller) SetWidth(width float64) {
	c.width = width
	c.Render()
}

// Resize schedules a repaint at the new width once resizing has been quiet
// for the debounce delay. Without Options.Post it repaints at once.
func (c *Controller) Resize(width float64) {
	apply := func() {
		c.log.Debug("Applying resize", zap.Float64("width", width))
		c.width = width
		c.clearHover()
		c.Render()
	}
	if c.resize == nil {
		apply()
		return
	}
	c.resize.Trigger(apply)
}

func (c *Controller) Width() float64 {
	return c.width
}

// Render repaints the canvas from the current state.
func (c *Controller) Render() {
	c.drawn = Render(c.canvas, c.State())
}

// Focus repaints unconditionally, since the surface may have been
// discarded while the window was in the background.
func (c *Controller) Focus() {
	c.Render()
}

// Close cancels any pending resize repaint.
func (c *Controller) Close() {
	if c.resize != nil {
		c.resize.Stop()
	}
}

// State returns the inputs of the next frame.
func (c *Controller) State() RenderState {
	return RenderState{
		Profile:  c.profile,
		Viewport: c.viewport,
		Query:    c.interaction.Query,
		Width:    c.width,
	}
}

func (c *Controller) Viewport() Viewport {
	return c.viewport
}

func (c *Controller) Interaction() Interaction {
	return c.interaction
}

// HasData reports whether the last frame drew anything.
func (c *Controller) HasData() bool {
	return c.drawn
}

// ResetVisible reports whether the view is zoomed in.
func (c *Controller) ResetVisible() bool {
	return c.viewport.ResetVisible()
}

// BarAt resolves the bar under plot coordinates (x, y).
func (c *Controller) BarAt(x, y float64) (Hit, bool) {
	if c.profile.Empty() {
		return Hit{}, false
	}
	t, ok := NewTransform(c.width, c.profile.NumTicks, c.viewport)
	if !ok {
		return Hit{}, false
	}
	i := int(math.Floor(y/RowHeight)) + c.viewport.TopLevel
	if i < 0 || i >= len(c.profile.Levels) {
		return Hit{}, false
	}
	j := SearchLevel(x, c.profile.Levels[i], t)
	if j < 0 {
		return Hit{}, false
	}
	bar, _ := c.profile.Bar(i, j)
	return Hit{Level: i, Index: j, Bar: bar, Name: c.profile.Name(bar.Name)}, true
}

// Click zooms into the bar under the pointer. It reports whether a bar
// was hit.
func (c *Controller) Click(x, y float64) bool {
	hit, ok := c.BarAt(x, y)
	if !ok {
		return false
	}
	if !c.ZoomTo(hit.Level, hit.Index) {
		return false
	}
	c.clearHover()
	return true
}

// ZoomTo narrows the view to the bar at depth i with wire index j. Stale
// indices are ignored.
func (c *Controller) ZoomTo(i, j int) bool {
	v, ok := c.viewport.ZoomTo(c.profile, i, j)
	if !ok {
		c.log.Debug("Ignoring zoom to missing bar", zap.Int("level", i), zap.Int("index", j))
		return false
	}
	c.log.Debug("Zooming", zap.Int("level", i), zap.Float64("min", v.RangeMin), zap.Float64("max", v.RangeMax))
	c.viewport = v
	c.Render()
	return true
}

// Move updates the highlight box and tooltip for a pointer at (x, y).
func (c *Controller) Move(x, y float64) {
	hit, ok := c.BarAt(x, y)
	if !ok || x < 0 || x > c.width {
		c.clearHover()
		return
	}
	t, _ := NewTransform(c.width, c.profile.NumTicks, c.viewport)

	left := math.Max(t.TickToX(hit.Bar.Offset), 0)
	c.interaction.Highlight = Highlight{
		Visible: true,
		Left:    left,
		Top:     float64((hit.Level - c.viewport.TopLevel) * RowHeight),
		Width:   math.Min(t.TickToX(hit.Bar.End())-left, c.width),
		Height:  RowHeight,
	}

	p := c.profile
	df := NewDurationFormatter(TicksToSeconds(p.NumTicks, p.SampleRate))
	subtitle := FormatPercent(float64(hit.Bar.Width)/float64(p.NumTicks)) + ", " +
		FormatSamples(hit.Bar.Width) + " samples, " +
		df.Format(TicksToSeconds(hit.Bar.Width, p.SampleRate))

	tw := math.Max(c.measure(hit.Name), c.measure(subtitle))
	c.interaction.Tooltip = Tooltip{
		Visible:  true,
		Title:    hit.Name,
		Subtitle: subtitle,
		Left:     math.Min(x+tooltipOffsetX+tw, c.width) - tw,
		Top:      y + tooltipOffsetY,
	}
}

// Leave hides the hover state when the pointer leaves the plot.
func (c *Controller) Leave() {
	c.clearHover()
}

// SetQuery changes the highlighted substring and repaints.
func (c *Controller) SetQuery(q string) {
	c.interaction.Query = q
	c.Render()
}

// Reset returns to the full view and repaints.
func (c *Controller) Reset() {
	c.viewport = c.viewport.Reset()
	c.Render()
}

func (c *Controller) clearHover() {
	c.interaction.Highlight = Highlight{}
	c.interaction.Tooltip = Tooltip{}
}

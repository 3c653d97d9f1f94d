package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
	"github.com/Oloruntobi1/tui-flamegraph/internal/flamegraph"
)

const noDataMessage = "No profiling data available for this application / time range."

const maxSuggestions = 5

// searchHeight covers the search line and the suggestion line below it.
const searchHeight = 2

type keyMap struct {
	Search    key.Binding
	Reset     key.Binding
	View      key.Binding
	Source    key.Binding
	SortName  key.Binding
	SortSelf  key.Binding
	SortTotal key.Binding
	Select    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Reset:     key.NewBinding(key.WithKeys("esc", "r"), key.WithHelp("esc", "reset view")),
		View:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "table/both/icicle")),
		Source:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "source")),
		SortName:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "sort by name")),
		SortSelf:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "sort by self")),
		SortTotal: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "sort by total")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "highlight row")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Reset, k.View, k.Source, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Reset, k.View, k.Source},
		{k.SortName, k.SortSelf, k.SortTotal, k.Select},
		{k.Help, k.Quit},
	}
}

type modelConfig struct {
	Source     string
	SourceRoot string
	Refresh    time.Duration
	CellWidth  float64
	View       flamegraph.ViewMode
}

// rect is a pane's inner area in terminal cells.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

type model struct {
	ctx    context.Context
	cfg    modelConfig
	loader *Loader
	log    *zap.Logger

	canvas *termCanvas
	ctrl   *flamegraph.Controller

	search      textinput.Model
	suggestions []string
	table       table.Model
	tableSort   flamegraph.TableSort
	rows        []flamegraph.Row
	graph       viewport.Model
	source      viewport.Model
	help        help.Model
	keys        keyMap
	styles      Styles

	view       flamegraph.ViewMode
	showSource bool
	hovered    string
	graphArea  rect

	width, height int
	ready         bool
	loading       bool
	err           error
}

// newModel wires a model. post delivers functions to the program's event
// loop and must be usable before the program starts.
func newModel(ctx context.Context, cfg modelConfig, loader *Loader, log *zap.Logger, post func(func())) model {
	styles := defaultStyles()
	canvas := newTermCanvas(cfg.CellWidth, styles)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search frames"
	search.CharLimit = 256

	m := model{
		ctx:    ctx,
		cfg:    cfg,
		loader: loader,
		log:    log,
		canvas: canvas,
		ctrl: flamegraph.NewController(canvas, flamegraph.Options{
			Post:    post,
			Measure: canvas.MeasureTooltip,
			Logger:  log,
		}),
		search:    search,
		tableSort: flamegraph.DefaultTableSort(),
		table: table.New(
			table.WithFocused(true),
			table.WithStyles(styles.TableStyles),
		),
		graph:   viewport.New(0, 0),
		source:  viewport.New(0, 0),
		help:    help.New(),
		keys:    defaultKeyMap(),
		styles:  styles,
		view:    cfg.View,
		loading: true,
	}
	m.graph.MouseWheelEnabled = true
	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{fetchProfileCmd(m.ctx, m.loader, m.cfg.Source)}
	if m.cfg.Refresh > 0 {
		cmds = append(cmds, tickerCmd(m.cfg.Refresh))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		plotWidth := m.canvas.PixelWidth(m.graphArea.w)
		if !m.ready {
			m.ready = true
			m.ctrl.SetWidth(plotWidth)
		} else {
			m.ctrl.Resize(plotWidth)
		}

	case runMsg:
		msg()

	case tea.FocusMsg:
		m.ctrl.Focus()

	case tickMsg:
		cmds = append(cmds, fetchProfileCmd(m.ctx, m.loader, m.cfg.Source), tickerCmd(m.cfg.Refresh))

	case profileUpdateMsg:
		m.loading = false
		m.err = nil
		m.ctrl.SetProfile(msg.profile)
		m.refreshTable()
		m.updateSuggestions()

	case profileUpdateErr:
		m.loading = false
		m.err = msg.err
		m.log.Warn("Failed to load profile", zap.String("source", m.cfg.Source), zap.Error(msg.err))

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		if m.search.Focused() {
			cmds = append(cmds, m.updateSearch(msg))
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.ctrl.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Search):
			cmds = append(cmds, m.search.Focus())
		case key.Matches(msg, m.keys.Reset):
			m.ctrl.Reset()
		case key.Matches(msg, m.keys.View):
			m.view = m.view.Next()
			m.layout()
			if m.view.HasGraph() {
				m.ctrl.SetWidth(m.canvas.PixelWidth(m.graphArea.w))
			}
		case key.Matches(msg, m.keys.Source):
			m.showSource = !m.showSource
			m.layout()
			m.ctrl.SetWidth(m.canvas.PixelWidth(m.graphArea.w))
			m.updateSourceView()
		case key.Matches(msg, m.keys.SortName):
			m.sortBy(flamegraph.SortByName)
		case key.Matches(msg, m.keys.SortSelf):
			m.sortBy(flamegraph.SortBySelf)
		case key.Matches(msg, m.keys.SortTotal):
			m.sortBy(flamegraph.SortByTotal)
		case key.Matches(msg, m.keys.Select):
			if row := m.table.SelectedRow(); len(row) > 0 {
				m.setQuery(row[0])
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.syncGraph()
	return m, tea.Batch(cmds...)
}

func (m *model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.ctrl.SetQuery(v)
		m.updateSuggestions()
	}
	return cmd
}

func (m *model) setQuery(q string) {
	m.search.SetValue(q)
	m.ctrl.SetQuery(q)
	m.updateSuggestions()
}

// updateSuggestions lists the frame names closest to the query.
func (m *model) updateSuggestions() {
	m.suggestions = nil
	q := m.search.Value()
	p := m.ctrl.Profile()
	if q == "" || p.Empty() {
		return
	}
	for _, match := range fuzzy.Find(q, p.Names) {
		if match.Str == q {
			continue
		}
		m.suggestions = append(m.suggestions, match.Str)
		if len(m.suggestions) == maxSuggestions {
			break
		}
	}
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if !m.view.HasGraph() {
		return
	}
	if tea.MouseEvent(msg).IsWheel() {
		m.graph, _ = m.graph.Update(msg)
		return
	}
	if !m.graphArea.contains(msg.X, msg.Y) {
		m.ctrl.Leave()
		return
	}

	col := msg.X - m.graphArea.x
	row := msg.Y - m.graphArea.y + m.graph.YOffset
	x, y := m.canvas.PixelAt(col, row)

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.ctrl.Click(x, y) {
			m.log.Debug("Zoomed from click", zap.Int("col", col), zap.Int("row", row))
			m.graph.GotoTop()
		}
	case msg.Action == tea.MouseActionMotion:
		m.ctrl.Move(x, y)
		if hit, ok := m.ctrl.BarAt(x, y); ok && hit.Name != m.hovered {
			m.hovered = hit.Name
			m.updateSourceView()
		}
	}
}

func (m *model) sortBy(k flamegraph.SortKey) {
	m.tableSort = m.tableSort.Toggle(k)
	m.refreshTable()
}

// refreshTable rebuilds the aggregate rows for the current profile.
func (m *model) refreshTable() {
	p := m.ctrl.Profile()
	m.rows = flamegraph.Aggregate(p)
	m.tableSort.Sort(m.rows)

	m.table.SetColumns(m.tableColumns())
	if p.Empty() {
		m.table.SetRows(nil)
		return
	}
	df := flamegraph.NewDurationFormatter(flamegraph.TicksToSeconds(p.NumTicks, p.SampleRate))
	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		rows = append(rows, table.Row{
			r.Name,
			formatCell(df, r.Self, p),
			formatCell(df, r.Total, p),
		})
	}
	m.table.SetRows(rows)
}

func formatCell(df flamegraph.DurationFormatter, ticks int64, p *flamebearer.Profile) string {
	return fmt.Sprintf("%s (%s)",
		df.Format(flamegraph.TicksToSeconds(ticks, p.SampleRate)),
		flamegraph.FormatPercent(float64(ticks)/float64(p.NumTicks)),
	)
}

func (m *model) tableColumns() []table.Column {
	const numWidth = 24
	title := func(k flamegraph.SortKey, name string) string {
		if m.tableSort.Key != k {
			return name
		}
		if m.tableSort.Direction == flamegraph.Ascending {
			return name + " ▲"
		}
		return name + " ▼"
	}
	nameWidth := max(m.table.Width()-2*numWidth-4, 10)
	return []table.Column{
		{Title: title(flamegraph.SortByName, "Location"), Width: nameWidth},
		{Title: title(flamegraph.SortBySelf, "Self"), Width: numWidth},
		{Title: title(flamegraph.SortByTotal, "Total"), Width: numWidth},
	}
}

// layout sizes every pane for the current window and view mode.
func (m *model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h, _ := m.styles.Base.GetFrameSize()
	headerHeight := lipgloss.Height(m.headerBox())
	statusHeight := lipgloss.Height(m.statusView())
	bodyHeight := max(m.height-headerHeight-searchHeight-statusHeight, 4)
	bodyWidth := m.width - h

	mainWidth := bodyWidth
	if m.showSource {
		sourceWidth := int(float64(bodyWidth) * 0.4)
		mainWidth = bodyWidth - sourceWidth
		m.source.Width = sourceWidth - 2
		m.source.Height = bodyHeight - 2
	}

	graphHeight, tableHeight := 0, 0
	switch m.view {
	case flamegraph.ViewIcicle:
		graphHeight = bodyHeight
	case flamegraph.ViewTable:
		tableHeight = bodyHeight
	default:
		graphHeight = bodyHeight * 3 / 5
		tableHeight = bodyHeight - graphHeight
	}

	top := headerHeight + searchHeight
	m.graphArea = rect{}
	if graphHeight > 0 {
		// One cell of padding plus the border on each side.
		m.graphArea = rect{x: h/2 + 1, y: top + 1, w: max(mainWidth-2, 0), h: max(graphHeight-2, 0)}
	}
	m.graph.Width = m.graphArea.w
	m.graph.Height = m.graphArea.h

	if tableHeight > 0 {
		m.table.SetWidth(mainWidth - 2)
		m.table.SetHeight(max(tableHeight-2, 2))
		m.table.SetColumns(m.tableColumns())
	}
}

// syncGraph copies the latest frame and hover overlays into the graph pane.
func (m *model) syncGraph() {
	m.graph.SetContent(m.canvas.View(m.ctrl.Interaction()))
}

func (m *model) updateSourceView() {
	if !m.showSource {
		return
	}
	name := m.hovered
	p := m.ctrl.Profile()
	if name == "" && !p.Empty() {
		v := m.ctrl.Viewport()
		offset := int64(math.Round(v.RangeMin * float64(p.NumTicks)))
		for _, bar := range p.Levels[v.SelectedLevel] {
			if bar.Offset == offset {
				name = p.Name(bar.Name)
				break
			}
		}
	}

	path, line := sourceLocation(m.cfg.SourceRoot, p, name)
	m.source.SetContent(highlightSource(path, line))
	m.source.SetYOffset(max(line-m.source.Height/2, 0))
}

func (m model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.headerBox()
	search := m.searchView()

	var main []string
	if m.view.HasGraph() {
		main = append(main, m.styles.Graph.
			Width(m.graphArea.w).
			Height(m.graphArea.h).
			Render(m.graphView()))
	}
	if m.view.HasTable() {
		main = append(main, m.styles.Table.Render(m.table.View()))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, main...)
	if m.showSource {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.styles.Source.Render(m.source.View()))
	}

	return m.styles.Base.Render(lipgloss.JoinVertical(lipgloss.Left, header, search, body, m.statusView()))
}

func (m model) headerBox() string {
	return m.styles.Header.Width(max(m.width-4, 0)).Render(m.headerView())
}

func (m model) headerView() string {
	title := "tui-flamegraph │ " + m.cfg.Source
	p := m.ctrl.Profile()
	if p == nil {
		return title
	}
	e := getExplanationForSpy(p.SpyName)
	title += " │ " + e.Title
	if m.help.ShowAll {
		title += "\n\n" + e.Description
	}
	return title
}

func (m model) searchView() string {
	line := m.search.View()
	if m.ctrl.ResetVisible() {
		line += "  " + m.styles.Reset.Render("[esc] reset view")
	}
	suggest := ""
	if len(m.suggestions) > 0 {
		suggest = m.styles.Suggestion.Render("did you mean: " + strings.Join(m.suggestions, ", "))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.styles.Search.Render(line), suggest)
}

func (m model) graphView() string {
	switch {
	case m.loading:
		return m.styles.Empty.Render("Loading " + m.cfg.Source + "...")
	case !m.ctrl.HasData():
		return m.styles.Empty.Render(noDataMessage)
	}
	return m.graph.View()
}

func (m model) statusView() string {
	status := m.help.View(m.keys)
	if p := m.ctrl.Profile(); !p.Empty() {
		status = fmt.Sprintf("%s samples │ %s", flamegraph.FormatSamples(p.NumTicks), status)
	}
	if m.err != nil {
		status = m.styles.Error.Render("error: "+m.err.Error()) + " │ " + status
	}
	return m.styles.Status.Render(status)
}

// linkscope is the terminal explorer for investigation call graphs:
// force-directed layout, community coloring, filtering, drag, and
// deep-link focus requests from the alerting side.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmorval/linkscope/pkg/events"
	"github.com/dmorval/linkscope/pkg/focusbus"
	"github.com/dmorval/linkscope/pkg/graph"
	"github.com/dmorval/linkscope/pkg/layout"
	"github.com/dmorval/linkscope/pkg/logging"
	"github.com/dmorval/linkscope/pkg/session"
)

const (
	logicalWidth  = 1200
	logicalHeight = 800

	frameInterval = 33 * time.Millisecond
	focusPollWait = 25 * time.Millisecond

	sidebarWidth = 34
	headerRows   = 2
	footerRows   = 2
)

type keyMap struct {
	PauseResume key.Binding
	Stabilize   key.Binding
	ResetLayout key.Binding
	ResetAll    key.Binding
	Dataset     key.Binding
	EventType   key.Binding
	WeightUp    key.Binding
	WeightDown  key.Binding
	Refresh     key.Binding
	Community   key.Binding
	Clear       key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	PauseResume: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause/resume"),
	),
	Stabilize: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stabilize"),
	),
	ResetLayout: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset layout"),
	),
	ResetAll: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset filters"),
	),
	Dataset: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next dataset"),
	),
	EventType: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "event type"),
	),
	WeightUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "min weight up"),
	),
	WeightDown: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "min weight down"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "refresh"),
	),
	Community: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "highlight community"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear selection"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PauseResume, k.Stabilize, k.Dataset, k.EventType, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PauseResume, k.Stabilize, k.ResetLayout, k.ResetAll},
		{k.Dataset, k.EventType, k.WeightUp, k.WeightDown},
		{k.Refresh, k.Community, k.Clear, k.Quit},
	}
}

// Messages

type frameMsg time.Time

type fetchDoneMsg struct {
	fetch   *session.Fetch
	payload *graph.Payload
	err     error
}

type focusMsg struct {
	req *session.FocusRequest
}

type datasetsMsg struct {
	datasets []string
	err      error
}

type model struct {
	store      events.Store
	source     session.GraphSource
	controller *session.Controller
	engine     *layout.Engine
	canvas     *cellCanvas
	sub        *focusbus.Subscriber

	keys keyMap
	help help.Model

	width, height int
	datasets      []string
	datasetIdx    int
	status        string
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func fetchCmd(f *session.Fetch, source session.GraphSource) tea.Cmd {
	return func() tea.Msg {
		payload, err := f.Run(source)
		return fetchDoneMsg{fetch: f, payload: payload, err: err}
	}
}

func (m model) pollFocusCmd() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		req, err := sub.Next(focusPollWait)
		if err != nil {
			return focusMsg{}
		}
		return focusMsg{req: req}
	}
}

func (m model) datasetsCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ds, err := store.Datasets(ctx)
		return datasetsMsg{datasets: ds, err: err}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.datasetsCmd(), frameCmd(), m.pollFocusCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.canvas.Resize(m.canvasCols(), m.canvasRows())
		return m, nil

	case frameMsg:
		if m.engine.ShouldTick() {
			m.engine.Tick()
		}
		return m, frameCmd()

	case datasetsMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("dataset listing failed: %v", msg.err)
			return m, nil
		}
		m.datasets = msg.datasets
		if len(m.datasets) == 0 {
			m.status = "no datasets available"
			return m, nil
		}
		m.datasetIdx = 0
		f := m.controller.SetDataset(m.datasets[0])
		m.status = "loading " + m.datasets[0]
		return m, fetchCmd(f, m.source)

	case fetchDoneMsg:
		outcome := m.controller.Resolve(msg.fetch, msg.payload, msg.err)
		switch outcome {
		case session.OutcomeApplied:
			p := m.controller.Payload()
			m.status = fmt.Sprintf("%d nodes, %d edges", p.Stats.NodeCount, p.Stats.EdgeCount)
		case session.OutcomeEmpty:
			m.status = "no events match these filters"
		case session.OutcomeFailed:
			m.status = ""
		}
		return m, nil

	case focusMsg:
		var cmds []tea.Cmd
		if msg.req != nil {
			if f := m.controller.SubmitFocus(*msg.req); f != nil {
				m.status = "focus: " + msg.req.FocusPhone
				cmds = append(cmds, fetchCmd(f, m.source))
			}
		}
		cmds = append(cmds, m.pollFocusCmd())
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.controller.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.PauseResume):
		switch m.engine.State() {
		case layout.Running, layout.Stabilizing:
			m.engine.Pause()
		default:
			m.engine.Resume()
		}

	case key.Matches(msg, m.keys.Stabilize):
		m.engine.Stabilize()

	case key.Matches(msg, m.keys.ResetLayout):
		m.engine.ResetLayout()

	case key.Matches(msg, m.keys.ResetAll):
		return m, m.maybeFetch(m.controller.ResetFilters())

	case key.Matches(msg, m.keys.Dataset):
		if len(m.datasets) > 1 {
			m.datasetIdx = (m.datasetIdx + 1) % len(m.datasets)
			return m, m.maybeFetch(m.controller.SetDataset(m.datasets[m.datasetIdx]))
		}

	case key.Matches(msg, m.keys.EventType):
		f := m.controller.Filters()
		f.EventType = nextEventType(f.EventType)
		return m, m.maybeFetch(m.controller.SetFilters(f))

	case key.Matches(msg, m.keys.WeightUp):
		f := m.controller.Filters()
		f.MinEdgeWeight++
		return m, m.maybeFetch(m.controller.SetFilters(f))

	case key.Matches(msg, m.keys.WeightDown):
		f := m.controller.Filters()
		if f.MinEdgeWeight > 1 {
			f.MinEdgeWeight--
			return m, m.maybeFetch(m.controller.SetFilters(f))
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, m.maybeFetch(m.controller.Refresh())

	case key.Matches(msg, m.keys.Community):
		if n := m.controller.SelectedNode(); n != nil {
			m.controller.HighlightCommunity(n.Community)
		}

	case key.Matches(msg, m.keys.Clear):
		m.controller.ClearSelection()
		m.controller.DismissFocusNotice()

	default:
		// 1-5 select the edge to the Nth top contact
		if n := contactIndex(msg.String()); n >= 0 {
			m.selectContactEdge(n)
		}
	}
	return m, nil
}

func (m *model) selectContactEdge(n int) {
	selected := m.controller.SelectedNode()
	if selected == nil {
		return
	}
	contacts := m.controller.TopContacts(selected.ID, n+1)
	if n >= len(contacts) {
		return
	}
	m.controller.SelectEdge(graph.EdgeKey(selected.ID, contacts[n].Number))
}

func contactIndex(s string) int {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '5' {
		return int(s[0] - '1')
	}
	return -1
}

func (m model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	col := msg.X
	row := msg.Y - headerRows
	if col >= m.canvasCols() {
		return m, nil
	}
	x, y := m.canvas.ToLogical(col, row)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if id := m.engine.BeginDrag(x, y); id != "" {
			m.controller.SelectNode(id)
		} else {
			m.controller.ClearSelection()
		}

	case tea.MouseActionMotion:
		if m.engine.Dragging() != "" {
			m.engine.DragTo(x, y)
		}

	case tea.MouseActionRelease:
		m.engine.EndDrag()
	}
	return m, nil
}

// maybeFetch turns a controller fetch into a command; nil means the
// operation was a no-op
func (m model) maybeFetch(f *session.Fetch) tea.Cmd {
	if f == nil {
		return nil
	}
	return fetchCmd(f, m.source)
}

func nextEventType(t events.EventType) events.EventType {
	switch t {
	case events.TypeAll:
		return events.TypeCall
	case events.TypeCall:
		return events.TypeSMS
	default:
		return events.TypeAll
	}
}

func (m model) canvasCols() int {
	cols := m.width - sidebarWidth
	if cols < 20 {
		cols = 20
	}
	return cols
}

func (m model) canvasRows() int {
	rows := m.height - headerRows - footerRows
	if rows < 10 {
		rows = 10
	}
	return rows
}

func main() {
	focusAddr := flag.String("focus-bus", "", "Focus bus address to subscribe to (e.g. tcp://127.0.0.1:40895)")
	dsn := flag.String("db", "", "Postgres DSN; empty uses the built-in demo dataset")
	flag.Parse()

	logFile, err := os.OpenFile("linkscope.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.NewJSONLogger(logFile, logging.InfoLevel)

	var store events.Store
	if *dsn != "" {
		pg, err := events.Connect(context.Background(), *dsn, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "database: %v\n", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
	} else {
		store = events.NewDemoStore()
	}

	var sub *focusbus.Subscriber
	if *focusAddr != "" {
		sub, err = focusbus.NewSubscriber(*focusAddr, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "focus bus: %v\n", err)
			os.Exit(1)
		}
		defer sub.Close()
	}

	engine := layout.NewEngine(layout.DefaultConfig(logicalWidth, logicalHeight), logger)
	controller := session.NewController(engine, logger)

	m := model{
		store:      store,
		source:     graph.NewBuilder(store, graph.WithLogger(logger)),
		controller: controller,
		engine:     engine,
		canvas:     newCellCanvas(80, 24, logicalWidth, logicalHeight),
		sub:        sub,
		keys:       keys,
		help:       help.New(),
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "explorer crashed: %v\n", err)
		os.Exit(1)
	}
}

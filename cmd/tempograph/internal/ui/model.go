// Package ui implements the terminal playback surface: the widget bar made
// visible. Every key maps onto exactly one public viewer operation.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tempograph/tempograph/pkg/layout"
	"github.com/tempograph/tempograph/pkg/live"
	"github.com/tempograph/tempograph/pkg/temporal"
	"github.com/tempograph/tempograph/pkg/vis"
)

// statusMsg is a consistent snapshot collected on the viewer loop.
type statusMsg struct {
	Window   temporal.Window
	Domain   temporal.Span
	Playing  bool
	Temporal bool
	Nodes    int
	Edges    int
	Layout   layout.Mode
	Filter   string
	Groups   []string
	Search   string
	Sessions int
}

type keyMap struct {
	PlayPause key.Binding
	StepFwd   key.Binding
	StepBack  key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ZoomReset key.Binding
	Layout    key.Binding
	Filter    key.Binding
	Search    key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		StepFwd:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "step forward")),
		StepBack:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "step back")),
		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ZoomReset: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
		Layout:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle layout")),
		Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the TUI state.
type Model struct {
	viewer *vis.Viewer
	server *live.Server

	keys     keyMap
	progress progress.Model
	search   textinput.Model

	status    statusMsg
	searching bool
	filterIdx int
	width     int
}

func newModel(viewer *vis.Viewer, server *live.Server) Model {
	search := textinput.New()
	search.Placeholder = "node name"
	search.CharLimit = 64

	return Model{
		viewer:   viewer,
		server:   server,
		keys:     defaultKeyMap(),
		progress: progress.New(progress.WithDefaultGradient()),
		search:   search,
		// Filter index -1 means "all".
		filterIdx: -1,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = msg
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 12
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.viewer.UpdateSearch(m.search.Value())
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.viewer.UpdateSearch("")
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		m.viewer.Widgets().PlayPause()

	case key.Matches(msg, m.keys.StepFwd):
		m.stepTime(+1)

	case key.Matches(msg, m.keys.StepBack):
		m.stepTime(-1)

	case key.Matches(msg, m.keys.ZoomIn):
		m.viewer.Widgets().ZoomIn()

	case key.Matches(msg, m.keys.ZoomOut):
		m.viewer.Widgets().ZoomOut()

	case key.Matches(msg, m.keys.ZoomReset):
		m.viewer.Widgets().ZoomReset()

	case key.Matches(msg, m.keys.Layout):
		m.viewer.Widgets().ToggleLayout()

	case key.Matches(msg, m.keys.Filter):
		m = m.cycleFilter()

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) stepTime(dir float64) {
	s := m.viewer.Slider()
	if s == nil {
		return
	}
	step := m.status.Domain.Width() / 20
	if step == 0 {
		step = 1
	}
	s.SetTime(m.status.Window.Time + dir*step)
}

func (m Model) cycleFilter() Model {
	groups := m.status.Groups
	if len(groups) == 0 {
		return m
	}
	m.filterIdx++
	if m.filterIdx >= len(groups) {
		m.filterIdx = -1
		m.viewer.Widgets().Filter(vis.FilterAll)
		return m
	}
	m.viewer.Widgets().Filter(groups[m.filterIdx])
	return m
}

// Run starts the TUI and keeps it fed with status snapshots collected on
// the viewer loop. It blocks until the user quits.
func Run(viewer *vis.Viewer, server *live.Server) error {
	m := newModel(viewer, server)
	p := tea.NewProgram(m, tea.WithAltScreen())

	var lastSent time.Time
	viewer.OnRender(func(v *vis.Viewer) {
		// Throttled: the TUI does not need frame-rate updates.
		if time.Since(lastSent) < 100*time.Millisecond {
			return
		}
		lastSent = time.Now()
		p.Send(collectStatus(v, server))
	})

	_, err := p.Run()
	return err
}

// collectStatus runs on the viewer loop, so reads are serialized.
func collectStatus(v *vis.Viewer, server *live.Server) statusMsg {
	st := v.StateSnapshot()
	msg := statusMsg{
		Window:   st.Window,
		Temporal: st.Temporal,
		Nodes:    len(v.Scene().Nodes()),
		Edges:    len(v.Scene().Edges()),
		Layout:   st.Layout,
		Filter:   st.Filter,
		Groups:   v.Options().Widgets.Filter.Groups,
		Search:   st.Search,
		Sessions: server.SessionCount(),
	}
	if s := v.Slider(); s != nil {
		msg.Domain = s.Domain()
		msg.Playing = s.Playing()
	}
	return msg
}

package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"logagrip/internal/app"
	"logagrip/internal/domain"
	"logagrip/internal/eventbus"
	"logagrip/internal/logging"
	"logagrip/internal/ui/views"
)

// frameMsg carries a snapshot from the main loop
type frameMsg struct {
	snapshot app.Snapshot
}

// helpMsg asks the model to open the help pager
type helpMsg struct{}

// quitMsg signals that the application should quit
type quitMsg struct{}

// Model is the Bubble Tea side of the browser. It owns no browsing state:
// keys go out on a channel and frames come back as snapshots.
type Model struct {
	keys    chan<- domain.Key
	run     *eventbus.RunState
	quitKey domain.Key

	frame  app.Snapshot
	ready  bool
	paging bool
	width  int
	height int

	renderer *views.Renderer
	help     help.Model
	bindings keyMap
	search   textinput.Model
	pager    *HelpPager
}

// NewModel creates a model that forwards decoded keys to keys
func NewModel(keys chan<- domain.Key, run *eventbus.RunState, quitKey domain.Key) *Model {
	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "type / to search"
	search.Cursor.SetMode(cursor.CursorStatic)

	return &Model{
		keys:     keys,
		run:      run,
		quitKey:  quitKey,
		renderer: views.NewRenderer(),
		help:     help.New(),
		bindings: newKeyMap(quitKey.String()),
		search:   search,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if m.paging {
			return m, nil
		}
		for _, k := range KeysFromMsg(msg) {
			m.forward(k)
		}
		if msg.Type == tea.KeyCtrlC {
			logging.Info("ui", "interrupted")
			m.run.Stop()
		}

	case frameMsg:
		m.frame = msg.snapshot
		m.ready = true
		m.syncSearch()

	case helpMsg:
		if m.paging {
			return m, nil
		}
		m.paging = true
		return m, m.pager.showHelpCmd(HelpContent(m.quitKey.String()))

	case helpPagerMsg:
		m.paging = false
		if msg.err != nil {
			logging.Warn("ui", "help pager failed", "error", msg.err)
		}

	case quitMsg:
		return m, tea.Quit
	}

	return m, nil
}

// forward hands k to the main loop without ever blocking the update loop
func (m *Model) forward(k domain.Key) {
	select {
	case m.keys <- k:
	default:
		logging.Warn("ui", "key queue full, dropping key", "key", k.String())
	}
}

func (m *Model) syncSearch() {
	m.search.SetValue(m.frame.Search.Text)
	m.search.SetCursor(m.frame.Search.Cursor)
	if m.frame.Focus == app.FocusHeader {
		m.search.Focus()
	} else {
		m.search.Blur()
	}
}

// View renders the last received frame
func (m *Model) View() string {
	return m.renderer.Render(views.ViewState{
		Width:       m.width,
		Height:      m.height,
		Snapshot:    m.frame,
		Ready:       m.ready,
		SearchInput: m.search.View(),
		HelpLine:    m.help.View(m.bindings),
	})
}

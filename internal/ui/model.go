// Package ui is the bubbletea front end: a session list beside a
// transcript timeline, with expandable tool calls and file-edit diffs.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ellerys/spyglass/internal/api"
	"github.com/ellerys/spyglass/internal/config"
	"github.com/ellerys/spyglass/internal/transcript"
	"github.com/ellerys/spyglass/internal/watcher"
)

type tab int

const (
	tabTimeline tab = iota
	tabFiles
)

// Model is the bubbletea model.
type Model struct {
	client   *api.Client
	cfg      config.Config
	cfgPath  string
	cfgWatch *watcher.Watcher

	sessions []transcript.Session
	selected int
	active   string // id of the loaded session
	msgs     []transcript.Message

	tab      tab
	curItems []item
	cursor   int
	expanded map[string]bool
	diffs    *diffCache

	vp      viewport.Model
	spin    spinner.Model
	loading bool
	status  string
	err     error

	stream       *api.Stream
	streamCancel context.CancelFunc
	openOnStart  string

	width  int
	height int
	ready  bool
}

// New creates the model. cfgWatch may be nil when the settings file
// cannot be watched; live reload is then disabled. A non-empty
// startSession is opened immediately instead of waiting for a pick
// from the session list.
func New(client *api.Client, cfg config.Config, cfgPath string, cfgWatch *watcher.Watcher, startSession string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		client:      client,
		cfg:         cfg,
		cfgPath:     cfgPath,
		cfgWatch:    cfgWatch,
		expanded:    make(map[string]bool),
		diffs:       newDiffCache(cfg.DiffMaxLines),
		spin:        sp,
		loading:     true,
		status:      "loading sessions",
		openOnStart: startSession,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spin.Tick,
		loadSessions(m.client),
		tick(time.Duration(m.cfg.PollSeconds) * time.Second),
	}
	if m.cfgWatch != nil {
		cmds = append(cmds, waitConfig(m.cfgWatch, m.cfgPath))
	}
	if m.openOnStart != "" {
		id := m.openOnStart
		cmds = append(cmds, func() tea.Msg { return openSessionMsg{sessionID: id} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		m.refreshContent()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tickMsg:
		return m, tea.Batch(
			loadSessions(m.client),
			tick(time.Duration(m.cfg.PollSeconds)*time.Second),
		)

	case sessionsMsg:
		if msg.err != nil {
			m.err = msg.err
			m.loading = false
			return m, nil
		}
		m.err = nil
		m.sessions = msg.sessions
		if m.selected >= len(m.sessions) {
			m.selected = len(m.sessions) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		if m.active == "" {
			m.loading = false
			m.status = "enter opens a session"
		}
		return m, nil

	case messagesMsg:
		if msg.sessionID != m.active {
			return m, nil // stale fetch from a previously opened session
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.msgs = msg.msgs
		m.rebuildItems()
		m.refreshContent()
		m.status = "live"
		return m, nil

	case openSessionMsg:
		return m.openSession(msg.sessionID)

	case streamMsg:
		// A stream cancelled by openSession still delivers its close;
		// only messages from the current subscription count.
		if msg.sessionID != m.active || msg.stream != m.stream {
			return m, nil
		}
		if !msg.ok {
			m.status = "stream closed"
			return m, nil
		}
		cmds := []tea.Cmd{waitStream(m.active, m.stream)}
		switch msg.ev.Type {
		case "session_updated":
			cmds = append(cmds, loadSessions(m.client))
		default:
			cmds = append(cmds, loadMessages(m.client, m.active))
		}
		return m, tea.Batch(cmds...)

	case configMsg:
		cmds := []tea.Cmd{}
		if m.cfgWatch != nil {
			cmds = append(cmds, waitConfig(m.cfgWatch, m.cfgPath))
		}
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Batch(cmds...)
		}
		m.applyConfig(msg.cfg)
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.streamCancel != nil {
			m.streamCancel()
		}
		return *m, tea.Quit

	case "up":
		if m.selected > 0 {
			m.selected--
		}
	case "down":
		if m.selected < len(m.sessions)-1 {
			m.selected++
		}

	case "enter":
		if len(m.sessions) > 0 {
			return m.openSession(m.sessions[m.selected].ID)
		}

	case "r":
		cmds := []tea.Cmd{loadSessions(m.client)}
		if m.active != "" {
			cmds = append(cmds, loadMessages(m.client, m.active))
		}
		m.loading = true
		return *m, tea.Batch(append(cmds, m.spin.Tick)...)

	case "tab", "1", "2":
		if msg.String() == "1" {
			m.tab = tabTimeline
		} else if msg.String() == "2" {
			m.tab = tabFiles
		} else if m.tab == tabTimeline {
			m.tab = tabFiles
		} else {
			m.tab = tabTimeline
		}
		m.rebuildItems()
		m.refreshContent()

	case "j":
		m.vp.SetYOffset(m.vp.YOffset + 1)
	case "k":
		m.vp.SetYOffset(m.vp.YOffset - 1)
	case "pgdown":
		m.vp.SetYOffset(m.vp.YOffset + m.vp.Height)
	case "pgup":
		m.vp.SetYOffset(m.vp.YOffset - m.vp.Height)

	case "n":
		if m.cursor < len(m.curItems)-1 {
			m.cursor++
			m.refreshContent()
		}
	case "p":
		if m.cursor > 0 {
			m.cursor--
			m.refreshContent()
		}

	case " ":
		if m.cursor < len(m.curItems) {
			id := m.curItems[m.cursor].id
			m.expanded[id] = !m.expanded[id]
			m.refreshContent()
		}

	case "v":
		if m.cfg.Layout == "horizontal" {
			m.cfg.Layout = "vertical"
		} else {
			m.cfg.Layout = "horizontal"
		}
		m.resize()
		m.refreshContent()
	}

	return *m, nil
}

// openSession loads a transcript and subscribes to its live stream,
// tearing down the previous subscription first.
func (m *Model) openSession(id string) (tea.Model, tea.Cmd) {
	if m.streamCancel != nil {
		m.streamCancel()
	}

	m.active = id
	m.msgs = nil
	m.curItems = nil
	m.cursor = 0
	m.expanded = make(map[string]bool)
	m.diffs = newDiffCache(m.cfg.DiffMaxLines)
	m.loading = true
	m.status = "loading session"
	m.refreshContent()

	ctx, cancel := context.WithCancel(context.Background())
	m.streamCancel = cancel
	m.stream = m.client.Subscribe(ctx, id)

	return *m, tea.Batch(
		loadMessages(m.client, id),
		waitStream(id, m.stream),
		m.spin.Tick,
	)
}

// applyConfig installs freshly loaded settings. The server URL is fixed
// for the process lifetime; everything else takes effect immediately.
func (m *Model) applyConfig(cfg config.Config) {
	cfg.ServerURL = m.cfg.ServerURL
	m.cfg = cfg
	m.diffs = newDiffCache(cfg.DiffMaxLines)
	m.status = "settings reloaded"
	m.resize()
	m.refreshContent()
}

func (m *Model) rebuildItems() {
	if m.tab == tabFiles {
		m.curItems = fileItems(m.msgs)
	} else {
		m.curItems = timelineItems(m.msgs)
	}
	if m.cursor >= len(m.curItems) {
		m.cursor = len(m.curItems) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) refreshContent() {
	if !m.ready {
		return
	}
	width := m.contentWidth()
	var lines []string
	if m.active == "" {
		lines = []string{noticeStyle.Render("  select a session and press enter")}
	} else if m.tab == tabFiles {
		lines = m.filesLines(width)
	} else {
		lines = m.timelineLines(width)
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
}

func (m *Model) resize() {
	contentHeight := m.height - 2 // tab bar + status bar
	if contentHeight < 1 {
		contentHeight = 1
	}
	if m.cfg.Layout == "vertical" {
		contentHeight -= m.listHeight() + 1
		if contentHeight < 1 {
			contentHeight = 1
		}
	}
	m.vp = viewport.New(m.contentWidth(), contentHeight)
}

func (m *Model) contentWidth() int {
	if m.cfg.Layout == "vertical" {
		return m.width
	}
	w := m.width - m.listWidth() - 1 // separator
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) listWidth() int {
	w := m.width / 3
	if w < 24 {
		w = 24
	}
	if w > 48 {
		w = 48
	}
	return w
}

func (m *Model) listHeight() int {
	h := len(m.sessions)
	if h > 8 {
		h = 8
	}
	if h < 1 {
		h = 1
	}
	return h
}

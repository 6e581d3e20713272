package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rsspanel/internal/panel"
	"github.com/five82/rsspanel/internal/prefs"
)

// Panel is the part of *panel.Controller the UI drives directly.
type Panel interface {
	State() panel.State
	UpdateDraftURL(value string)
	SaveDraftURL(ctx context.Context, value string) error
	CancelConfiguration(ctx context.Context)
}

var _ Panel = (*panel.Controller)(nil)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Panel     Panel
	Bridge    *Bridge
	PanelID   string
	ThemeName string
	PrefsPath string
	LogPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	panel     Panel
	bridge    *Bridge
	panelID   string
	prefsPath string
	logPath   string
	keys      keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	showLogs bool
	removed  bool
	notice   string

	// Panel state
	state panel.State

	// Components
	input    textinput.Model
	items    viewport.Model
	spinner  spinner.Model
	logLines []string
	logErr   error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = DefaultThemeName
	}

	panelID := opts.PanelID
	if panelID == "" {
		panelID = "default"
	}

	input := textinput.New()
	input.Placeholder = "https://example.com/feed.xml"
	input.Prompt = "URL "
	input.CharLimit = 2048

	m := Model{
		ctx:       ctx,
		panel:     opts.Panel,
		bridge:    opts.Bridge,
		panelID:   panelID,
		prefsPath: opts.PrefsPath,
		logPath:   opts.LogPath,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		input:     input,
		items:     viewport.New(0, 0),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	if opts.Panel != nil {
		m.applyState(opts.Panel.State())
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
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
		return m, nil

	case stateMsg:
		m.applyState(panel.State(msg))
		return m, nil

	case configModeMsg:
		if msg {
			return m, m.input.Focus()
		}
		m.input.Blur()
		return m, nil

	case removedMsg:
		m.removed = true
		return m, tea.Quit

	case saveDoneMsg:
		switch {
		case msg.err == nil:
			m.notice = ""
		case errors.Is(msg.err, panel.ErrEmptyFeedURL):
			m.notice = "Enter a feed URL to continue"
		case errors.Is(msg.err, panel.ErrSaveInProgress):
			m.notice = "Saving..."
		default:
			// The state snapshot carries the failure.
			m.notice = ""
		}
		return m, nil

	case logTailMsg:
		m.logLines = msg.lines
		m.logErr = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state.Mode == panel.ModeConfiguring {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.removed {
		return "Panel removed.\n"
	}
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}
	return m.renderMain()
}

// applyState adopts a controller snapshot unless it is older than the one
// already shown.
func (m *Model) applyState(s panel.State) {
	if s.Revision != 0 && s.Revision <= m.state.Revision {
		return
	}
	prev := m.state
	m.state = s

	if s.Mode == panel.ModeConfiguring && prev.Mode != panel.ModeConfiguring {
		m.input.SetValue(s.Draft)
		m.input.CursorEnd()
		m.input.Focus()
		m.notice = ""
	}
	if s.Mode != panel.ModeConfiguring {
		m.input.Blur()
	}
	if itemsChanged(prev, s) {
		m.items.SetContent(m.renderItems(m.contentWidth()))
		m.items.GotoTop()
	}
}

func itemsChanged(prev, next panel.State) bool {
	if len(prev.Items) != len(next.Items) || (prev.Items == nil) != (next.Items == nil) {
		return true
	}
	for i := range next.Items {
		if prev.Items[i] != next.Items[i] {
			return true
		}
	}
	return false
}

func (m *Model) resize() {
	width := m.contentWidth()
	m.items.Width = width
	m.items.Height = max(m.height-2, 1)
	m.input.Width = max(width-10, 10)
	m.items.SetContent(m.renderItems(width))
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.state.Mode == panel.ModeConfiguring {
		return m.handleConfigureKey(msg)
	}

	if m.showLogs {
		switch {
		case key.Matches(msg, m.keys.Logs), msg.String() == "esc":
			m.showLogs = false
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.tailLogsCmd()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		m.items.SetContent(m.renderItems(m.contentWidth()))
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		return m, m.tailLogsCmd()

	case key.Matches(msg, m.keys.Configure):
		return m, m.handlerCmd(func(h panel.Handlers) func() { return h.OnConfigure })

	case key.Matches(msg, m.keys.Refresh):
		return m, m.handlerCmd(func(h panel.Handlers) func() { return h.OnRefresh })

	case key.Matches(msg, m.keys.Top):
		m.items.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.items.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.items.ScrollUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.items.ScrollDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.items.PageUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.items.PageDown()
		return m, nil
	}

	return m, nil
}

// handleConfigureKey routes keys to the URL input while configuring.
func (m Model) handleConfigureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		if strings.TrimSpace(m.input.Value()) == "" {
			m.notice = "Enter a feed URL to continue"
			return m, nil
		}
		m.notice = "Saving..."
		return m, m.saveCmd(m.input.Value())

	case key.Matches(msg, m.keys.Cancel):
		m.notice = ""
		return m, m.cancelCmd()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.notice = ""
		return m, tea.Batch(cmd, m.draftCmd(after))
	}
	return m, cmd
}

// Messages

type stateMsg panel.State

type configModeMsg bool

type removedMsg struct{}

type saveDoneMsg struct {
	err error
}

type logTailMsg struct {
	lines []string
	err   error
}

// Commands
//
// Controller calls block on I/O and publish state back through the Bridge,
// which feeds this program's message loop, so they always run as commands.

func (m Model) draftCmd(value string) tea.Cmd {
	p := m.panel
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		p.UpdateDraftURL(value)
		return nil
	}
}

func (m Model) saveCmd(value string) tea.Cmd {
	p, ctx := m.panel, m.ctx
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		return saveDoneMsg{err: p.SaveDraftURL(ctx, value)}
	}
}

func (m Model) cancelCmd() tea.Cmd {
	p, ctx := m.panel, m.ctx
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		p.CancelConfiguration(ctx)
		return nil
	}
}

func (m Model) handlerCmd(pick func(panel.Handlers) func()) tea.Cmd {
	if m.bridge == nil {
		return nil
	}
	b := m.bridge
	return func() tea.Msg {
		if fn := pick(b.Handlers()); fn != nil {
			fn()
		}
		return nil
	}
}

// Run starts the Bubble Tea program and blocks until it exits. The bridge is
// attached before the program starts and closed after it stops.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Bridge != nil {
		opts.Bridge.Attach(p)
		defer opts.Bridge.Close()
	}
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/parley"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable message area. Exported for test access.
	Viewport viewport.Model
	// Spinner animates while a reply is pending.
	Spinner spinner.Model

	engine  Engine
	styles  Styles
	session parley.Session

	pending bool
	err     error
	width   int
	ready   bool
}

// New creates a TUI Model driving engine.
func New(engine Engine, theme parley.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	styles := NewStyles(theme)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner))

	return Model{
		Input:   ti,
		Spinner: sp,
		engine:  engine,
		styles:  styles,
		session: engine.Snapshot(),
	}
}

// Pending returns whether a reply is outstanding.
func (m Model) Pending() bool { return m.pending }

// Session returns the session as last rendered.
func (m Model) Session() parley.Session { return m.session }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		// The engine appends the user message from the submit goroutine;
		// refreshing on each tick shows it before the reply lands.
		m = m.refresh()
		return m, cmd

	case SubmitDoneMsg:
		m.pending = false
		m = m.refresh()
		return m, m.Input.Focus()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(RenderTabs(m.session, m.styles, m.width))
	b.WriteString("\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	tabsHeight := 1
	inputHeight := 1
	statusHeight := 1
	borderHeight := 3 // newlines between sections
	vpHeight := msg.Height - tabsHeight - inputHeight - statusHeight - borderHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	m.width = msg.Width
	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEnter:
		if m.pending {
			return m, nil
		}
		text := m.Input.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.Input.SetValue("")
		m.pending = true
		m.err = nil
		return m, tea.Batch(submit(m.engine, text), m.Spinner.Tick)

	case tea.KeyCtrlN:
		m.engine.StartNewThread()
		return m.refresh(), nil

	case tea.KeyCtrlRight:
		return m.cycleThread(1), nil

	case tea.KeyCtrlLeft:
		return m.cycleThread(-1), nil
	}

	// Only forward non-character keys to the viewport so typing 'j'/'k'
	// does not scroll.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// cycleThread activates the thread delta positions from the active one,
// wrapping around.
func (m Model) cycleThread(delta int) Model {
	threads := m.session.Threads
	if len(threads) < 2 {
		return m
	}
	current := 0
	for i, t := range threads {
		if t.ID == m.session.ActiveThreadID {
			current = i
			break
		}
	}
	next := (current + delta + len(threads)) % len(threads)
	if err := m.engine.SetActiveThread(threads[next].ID); err != nil {
		m.err = err
	}
	return m.refresh()
}

// refresh re-reads the session from the engine and re-renders the active
// thread into the viewport.
func (m Model) refresh() Model {
	m.session = m.engine.Snapshot()
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	thread, _ := m.session.ActiveThread()
	parts := make([]string, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		parts = append(parts, RenderMessage(msg, m.styles, m.Viewport.Width))
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.pending {
		return m.Spinner.View() + m.styles.Muted.Render(" Waiting for reply...")
	}
	return m.styles.Muted.Render("Enter to send, Ctrl+N new chat, Ctrl+←/→ switch chats, Ctrl+C to quit")
}

// submit sends text through the engine and signals when the reply has
// been appended.
func submit(e Engine, text string) tea.Cmd {
	return func() tea.Msg {
		e.Submit(context.Background(), text)
		return SubmitDoneMsg{}
	}
}

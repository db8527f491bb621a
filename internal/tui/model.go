// Package tui is the interactive chat console. It renders the merged
// timeline and routes operator input to the session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/staffpilot/internal/conversation"
	"github.com/jonathan/staffpilot/internal/dashboard"
	"github.com/jonathan/staffpilot/internal/store"
	"github.com/jonathan/staffpilot/internal/types"
)

// Backend is the part of the session the console drives.
type Backend interface {
	SendChat(ctx context.Context, text string) (types.ChatReply, error)
	UploadResumeFile(ctx context.Context, path string) (*types.ParsedResume, error)
	ClearMemory(ctx context.Context) error
	Timeline() []conversation.Message
	Dashboard() *dashboard.Coordinator
}

const helpText = "enter send • tab cycle suggestions • /upload <file.pdf> • /clear • /quit"

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	localStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle     = lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230"))
)

// actionDoneMsg reports that a backend call returned.
type actionDoneMsg struct {
	action string
	err    error
}

// Model is the bubbletea model of the console.
type Model struct {
	ctx      context.Context
	backend  Backend
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	width, height int
	ready         bool
	inFlight      int
	status        string
	suggestions   []string
	suggestionIdx int
	shown         int    // timeline length at the last render
	shownLast     uint64 // id of the last rendered message
}

// New creates a console model over backend.
func New(ctx context.Context, backend Backend) Model {
	input := textinput.New()
	input.Placeholder = "Ask about candidates, jobs or emails..."
	input.Prompt = "› "
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		backend: backend,
		input:   input,
		spinner: sp,
	}
}

// Run starts the console in the alternate screen and blocks until it exits.
func Run(ctx context.Context, backend Backend) error {
	p := tea.NewProgram(New(ctx, backend), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// busy reports whether a chat operation is in flight. Submission is disabled
// until it settles.
func (m Model) busy() bool {
	return m.inFlight > 0 || m.backend.Dashboard().IsAnythingPending(store.NameChat)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyTab:
			m.cycleSuggestion()
			return m, nil
		}

	case actionDoneMsg:
		m.inFlight--
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		// Actions append notices to the timeline before their call settles.
		if m.inFlight > 0 {
			m.refreshIfChanged()
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if m.busy() {
		m.status = "Waiting for the assistant to reply..."
		return m, nil
	}
	m.input.Reset()
	m.suggestions = nil

	if strings.HasPrefix(text, "/") {
		return m.command(text)
	}
	return m.start("chat", func(ctx context.Context) error {
		_, err := m.backend.SendChat(ctx, text)
		return err
	})
}

func (m Model) command(text string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/clear":
		return m.start("clear", m.backend.ClearMemory)
	case "/upload":
		if arg == "" {
			m.status = "usage: /upload <file.pdf>"
			return m, nil
		}
		return m.start("upload", func(ctx context.Context) error {
			_, err := m.backend.UploadResumeFile(ctx, arg)
			return err
		})
	case "/help":
		m.status = helpText
		return m, nil
	default:
		m.status = fmt.Sprintf("unknown command %s", name)
		return m, nil
	}
}

// start runs fn off the update loop and counts it as in flight until its
// actionDoneMsg arrives.
func (m Model) start(action string, fn func(context.Context) error) (tea.Model, tea.Cmd) {
	m.inFlight++
	m.status = ""
	ctx := m.ctx
	run := func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(ctx)}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m *Model) cycleSuggestion() {
	if len(m.suggestions) == 0 {
		return
	}
	m.input.SetValue(m.suggestions[m.suggestionIdx%len(m.suggestions)])
	m.input.CursorEnd()
	m.suggestionIdx++
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vpHeight := max(height-5, 3)
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.input.Width = max(width-4, 10)
	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	m.refresh()
}

// refresh re-renders the timeline and picks up the newest suggestions.
func (m *Model) refresh() {
	m.render(m.backend.Timeline())
}

// refreshIfChanged re-renders only when messages were added or replaced, so
// the operator's scroll position survives idle ticks.
func (m *Model) refreshIfChanged() {
	timeline := m.backend.Timeline()
	if len(timeline) == m.shown && (len(timeline) == 0 || timeline[len(timeline)-1].ID == m.shownLast) {
		return
	}
	m.render(timeline)
}

func (m *Model) render(timeline []conversation.Message) {
	m.shown = len(timeline)
	m.shownLast = 0
	if len(timeline) > 0 {
		m.shownLast = timeline[len(timeline)-1].ID
	}
	m.suggestions = conversation.LastSuggestions(timeline)
	m.suggestionIdx = 0
	if !m.ready {
		return
	}
	m.viewport.SetContent(renderTimeline(timeline, m.renderer))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Starting StaffPilot..."
	}

	var footer string
	switch {
	case m.busy():
		footer = m.spinner.View() + " Waiting for the assistant..."
	case m.status != "":
		footer = errorStyle.Render(m.status)
	case len(m.suggestions) > 0:
		footer = helpStyle.Render("tab: " + strings.Join(m.suggestions, " | "))
	default:
		footer = helpStyle.Render(helpText)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("StaffPilot"),
		m.viewport.View(),
		m.input.View(),
		footer,
	)
}

// Package tui provides the terminal user interface for echochat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/echochat/internal/chat"
	"github.com/xonecas/echochat/internal/features"
	"github.com/xonecas/echochat/internal/theme"
)

// Tab identifies the visible screen.
type Tab int

const (
	TabChat Tab = iota
	TabSettings
)

func (t Tab) String() string {
	if t == TabSettings {
		return "Settings"
	}
	return "Chat"
}

// Controller is what the model drives. ThemeState is a plain read; every
// other method may notify the program and is only called from a tea.Cmd.
type Controller interface {
	Send(text string) (chat.Message, error)
	SetTheme(p theme.Preference) error
	ThemeState() theme.State
	StartVoice() error
	CancelVoice() error
	ClearHistory()
}

// Model is the main TUI model.
type Model struct {
	controller Controller

	conversation Conversation
	input        Input
	statusBar    StatusBar
	voice        VoiceOverlay

	// The effective theme is never cached across a ThemeChangedMsg; state
	// and styles are both rebuilt from the controller.
	state theme.State
	theme Theme
	tab   Tab

	width  int
	height int
	ready  bool
}

// NewModel creates a new TUI model.
func NewModel(controller Controller, history []chat.Message) Model {
	state := controller.ThemeState()
	th := NewTheme(state.Effective)

	m := Model{
		controller:   controller,
		state:        state,
		theme:        th,
		conversation: NewConversation(80, 20, th),
		input:        NewInput(80, th),
		statusBar:    NewStatusBar(80),
	}
	m.conversation.SetMessages(history)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.statusBar.Init(),
		m.input.Focus(),
	)
}

// Layout heights
const (
	headerHeight = 1
	inputHeight  = 2 // top border + text
	statusHeight = 2 // top border + text
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.conversation.SetSize(m.width, m.conversationHeight())
		m.input.SetWidth(m.width)
		m.statusBar.SetWidth(m.width)

		m.ready = true

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.tab == TabChat && !m.voice.Active() {
			var cmd tea.Cmd
			m.conversation, cmd = m.conversation.Update(msg)
			cmds = append(cmds, cmd)
		}

	case StatusBarTickMsg:
		var cmd tea.Cmd
		m.statusBar, cmd = m.statusBar.Update(msg)
		cmds = append(cmds, cmd)

	case VoiceTickMsg:
		var cmd tea.Cmd
		m.voice, cmd = m.voice.Update(msg)
		cmds = append(cmds, cmd)

	case ThemeChangedMsg:
		m.applyTheme(m.controller.ThemeState())

	case MessageReceivedMsg:
		m.conversation.AddMessage(msg.Message)
		if msg.Message.Sender == chat.SenderBot {
			m.statusBar.ClearInfo()
			cmds = append(cmds, m.statusBar.AnimateBot())
		}
		m.statusBar.ClearError()

	case BotTypingMsg:
		m.statusBar.SetInfo("bot is typing")
		cmds = append(cmds, m.statusBar.AnimateBot())

	case ConversationResetMsg:
		m.conversation.SetMessages(nil)
		m.statusBar.ClearError()
		m.statusBar.ClearWarning()

	case VoiceStateMsg:
		cmds = append(cmds, m.voice.SetState(msg.State))
		if msg.State == features.VoiceIdle {
			m.statusBar.ClearInfo()
		} else {
			m.statusBar.SetInfo("voice " + msg.State.String())
			cmds = append(cmds, m.statusBar.AnimateVoice())
		}

	case VoiceTextMsg:
		m.voice.SetText(msg.Text)

	case switchTabMsg:
		m.setTab(msg.Tab)

	case ErrorMsg:
		cmds = append(cmds, m.statusBar.SetError(truncate(msg.Error, 100)))
		m.statusBar.ClearWarning() // Error takes priority

	case WarningMsg:
		cmds = append(cmds, m.statusBar.SetWarning(truncate(msg.Warning, 100)))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Escape):
		if m.voice.Active() {
			return m, m.cancelVoice()
		}
		if m.tab == TabSettings {
			m.setTab(TabChat)
		}
		return m, nil
	}

	// The overlay is modal
	if m.voice.Active() {
		return m, nil
	}

	if key.Matches(msg, keys.Tab) {
		if m.tab == TabChat {
			m.setTab(TabSettings)
		} else {
			m.setTab(TabChat)
		}
		return m, nil
	}

	if m.tab == TabSettings {
		if p, ok := settingsAction(msg, m.state.Preference); ok {
			return m, m.setTheme(p)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		m.input.AddToHistory(value)
		m.input.Reset()
		if strings.HasPrefix(value, "/") {
			return m, m.executeCommand(value)
		}
		return m, m.sendMessage(value)

	case key.Matches(msg, keys.PageUp), key.Matches(msg, keys.PageDown):
		var cmd tea.Cmd
		m.conversation, cmd = m.conversation.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyTheme rebuilds every style from the given state.
func (m *Model) applyTheme(state theme.State) {
	m.state = state
	m.theme = NewTheme(state.Effective)
	m.conversation.SetTheme(m.theme)
	m.input.SetTheme(m.theme)
	log.Debug().
		Str("preference", state.Preference.String()).
		Str("effective", state.Effective.String()).
		Msg("Applied theme")
}

func (m *Model) setTab(tab Tab) {
	m.tab = tab
	if tab == TabChat {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m Model) conversationHeight() int {
	h := m.height - headerHeight - inputHeight - statusHeight
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	const minWidth = 40
	const minHeight = 15
	if m.width < minWidth || m.height < minHeight {
		return fmt.Sprintf(
			"Terminal too small!\n\nMinimum: %dx%d\nCurrent: %dx%d\n\nPlease resize.",
			minWidth, minHeight, m.width, m.height,
		)
	}

	bodyHeight := m.conversationHeight() + inputHeight

	var body string
	switch {
	case m.voice.Active():
		body = m.voice.View(m.theme, m.width, bodyHeight)
	case m.tab == TabSettings:
		body = renderSettings(m.theme, m.state, m.width, bodyHeight)
	default:
		body = m.conversation.View() + "\n" + m.input.View()
	}

	content := m.renderTabs() + "\n" + body + "\n" + m.statusBar.View(m.theme, m.state)

	return lipgloss.NewStyle().
		Background(m.theme.Palette.Bg).
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m Model) renderTabs() string {
	var parts []string
	for _, t := range []Tab{TabChat, TabSettings} {
		style := m.theme.TabInactive
		if t == m.tab {
			style = m.theme.TabActive
		}
		parts = append(parts, style.Render(t.String()))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return m.theme.Fill(m.width, row)
}

// sendMessage submits a chat message through the controller.
func (m Model) sendMessage(content string) tea.Cmd {
	ctrl := m.controller
	return func() tea.Msg {
		msg, err := ctrl.Send(content)
		if err != nil {
			log.Error().Err(err).Msg("Failed to send message")
			return ErrorMsg{Error: err.Error()}
		}
		return MessageReceivedMsg{Message: msg}
	}
}

func (m Model) setTheme(p theme.Preference) tea.Cmd {
	ctrl := m.controller
	return func() tea.Msg {
		if err := ctrl.SetTheme(p); err != nil {
			return ErrorMsg{Error: err.Error()}
		}
		// The store subscription delivers the change; this covers a
		// controller that does not notify.
		return ThemeChangedMsg{}
	}
}

func (m Model) cancelVoice() tea.Cmd {
	ctrl := m.controller
	return func() tea.Msg {
		if err := ctrl.CancelVoice(); err != nil {
			log.Debug().Err(err).Msg("Cancel voice")
		}
		return nil
	}
}

// executeCommand executes a slash command.
func (m Model) executeCommand(cmd string) tea.Cmd {
	ctrl := m.controller
	current := m.state.Preference
	return func() tea.Msg {
		parts := strings.Fields(cmd)
		if len(parts) == 0 {
			return nil
		}

		switch parts[0] {
		case "/theme":
			target := current.Next()
			if len(parts) > 1 {
				p, err := theme.ParsePreference(parts[1])
				if err != nil {
					return ErrorMsg{Error: err.Error()}
				}
				target = p
			}
			if err := ctrl.SetTheme(target); err != nil {
				return ErrorMsg{Error: err.Error()}
			}
			return ThemeChangedMsg{}

		case "/voice":
			if err := ctrl.StartVoice(); err != nil {
				return ErrorMsg{Error: err.Error()}
			}
			return nil

		case "/clear":
			ctrl.ClearHistory()
			return ConversationResetMsg{}

		case "/settings":
			return switchTabMsg{Tab: TabSettings}

		case "/exit", "/quit":
			return tea.Quit()

		default:
			log.Info().Str("command", cmd).Msg("Unknown command")
			return WarningMsg{Warning: "unknown command: " + parts[0]}
		}
	}
}

// Key bindings
var keys = struct {
	Quit     key.Binding
	Escape   key.Binding
	Enter    key.Binding
	Tab      key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c")),
	Escape:   key.NewBinding(key.WithKeys("esc")),
	Enter:    key.NewBinding(key.WithKeys("enter")),
	Tab:      key.NewBinding(key.WithKeys("tab")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
}

// Message types for external communication
type (
	// ThemeChangedMsg is sent when the preference or the effective theme
	// changes. It carries no state; the model re-reads its controller.
	ThemeChangedMsg struct{}

	// MessageReceivedMsg is sent when a new message joins the conversation.
	MessageReceivedMsg struct {
		Message chat.Message
	}

	// BotTypingMsg is sent when a bot reply has been scheduled.
	BotTypingMsg struct{}

	// ConversationResetMsg is sent after the history has been cleared.
	ConversationResetMsg struct{}

	// VoiceStateMsg is sent on every voice phase change.
	VoiceStateMsg struct {
		State features.VoiceState
	}

	// VoiceTextMsg carries the latest transcript or response for the overlay.
	VoiceTextMsg struct {
		Text string
	}

	// ErrorMsg is sent when an error occurs.
	ErrorMsg struct {
		Error string
	}

	// WarningMsg is sent when a warning occurs.
	WarningMsg struct {
		Warning string
	}

	switchTabMsg struct {
		Tab Tab
	}
)

// Helper functions

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxInputHistory = 100

// Input handles text input with history navigation.
type Input struct {
	textInput    textinput.Model
	history      []string // Previous messages
	historyIndex int      // Current position in history (-1 = not browsing)
	draft        string   // Saved draft when browsing history
	theme        Theme
	width        int
}

// sendLabel is the send "button" drawn right of the text field.
const sendLabel = "➤"

// NewInput creates a new input component.
func NewInput(width int, th Theme) Input {
	ti := textinput.New()
	ti.Placeholder = "Type your message..."
	ti.Prompt = "> "
	ti.CharLimit = 2000
	ti.Focus()

	i := Input{
		textInput:    ti,
		history:      make([]string, 0, maxInputHistory),
		historyIndex: -1,
	}
	i.SetTheme(th)
	i.SetWidth(width)
	return i
}

// SetWidth updates the input width.
func (i *Input) SetWidth(width int) {
	i.width = width
	// border padding (2) + prompt (2) + gap and send button (5)
	i.textInput.Width = width - 9
	if i.textInput.Width < 1 {
		i.textInput.Width = 1
	}
}

// SetTheme applies the theme's input colors.
func (i *Input) SetTheme(th Theme) {
	i.theme = th
	i.textInput.PromptStyle = th.InputPrompt
	i.textInput.TextStyle = th.InputText
	i.textInput.PlaceholderStyle = th.InputPlaceholder
	i.textInput.Cursor.Style = lipgloss.NewStyle().Foreground(th.Palette.Tint)
}

// Focus focuses the input.
func (i *Input) Focus() tea.Cmd {
	return i.textInput.Focus()
}

// Blur blurs the input.
func (i *Input) Blur() {
	i.textInput.Blur()
}

// Value returns the current input value.
func (i Input) Value() string {
	return i.textInput.Value()
}

// SetValue sets the input value.
func (i *Input) SetValue(value string) {
	i.textInput.SetValue(value)
}

// Reset clears the input.
func (i *Input) Reset() {
	i.textInput.Reset()
	i.historyIndex = -1
	i.draft = ""
}

// AddToHistory adds a message to the history.
func (i *Input) AddToHistory(message string) {
	if message == "" {
		return
	}

	// Avoid duplicate consecutive entries
	if len(i.history) > 0 && i.history[len(i.history)-1] == message {
		return
	}

	i.history = append(i.history, message)
	if len(i.history) > maxInputHistory {
		i.history = i.history[len(i.history)-maxInputHistory:]
	}
}

// History key bindings
var historyKeys = struct {
	Up   key.Binding
	Down key.Binding
}{
	Up:   key.NewBinding(key.WithKeys("up")),
	Down: key.NewBinding(key.WithKeys("down")),
}

// Update handles input updates.
func (i Input) Update(msg tea.Msg) (Input, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, historyKeys.Up):
			i.navigateHistory(1)
			return i, nil
		case key.Matches(keyMsg, historyKeys.Down):
			i.navigateHistory(-1)
			return i, nil
		}
	}

	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

// navigateHistory moves through the history.
// direction: 1 = older (up), -1 = newer (down)
func (i *Input) navigateHistory(direction int) {
	if len(i.history) == 0 {
		return
	}

	// Save current input as draft when starting to browse
	if i.historyIndex == -1 && direction == 1 {
		i.draft = i.textInput.Value()
	}

	newIndex := i.historyIndex + direction
	if newIndex < -1 {
		newIndex = -1
	}
	if newIndex >= len(i.history) {
		newIndex = len(i.history) - 1
	}
	i.historyIndex = newIndex

	if i.historyIndex == -1 {
		i.textInput.SetValue(i.draft)
	} else {
		// Most recent is at end of slice
		i.textInput.SetValue(i.history[len(i.history)-1-i.historyIndex])
	}
	i.textInput.CursorEnd()
}

// View renders the input with the send button.
func (i Input) View() string {
	field := lipgloss.NewStyle().
		Background(i.theme.Palette.InputBg).
		Width(i.width - 7).
		Render(i.textInput.View())

	gap := lipgloss.NewStyle().Background(i.theme.Palette.Bg).Render(" ")
	row := lipgloss.JoinHorizontal(lipgloss.Top, field, gap, i.theme.SendButton.Render(sendLabel))

	return i.theme.InputBorder.Width(i.width).Render(row)
}

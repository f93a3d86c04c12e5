package tui

import (
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xonecas/echochat/internal/chat"
	"github.com/xonecas/echochat/internal/features"
	"github.com/xonecas/echochat/internal/theme"
)

// fakeController resolves preferences against a fixed platform mode.
type fakeController struct {
	mu       sync.Mutex
	state    theme.State
	sent     []string
	voiceOn  bool
	cleared  int
	sendErr  error
	voiceErr error
}

func newFakeController(p theme.Preference, platform theme.Mode) *fakeController {
	return &fakeController{state: theme.State{
		Preference: p,
		Platform:   platform,
		Effective:  theme.Resolve(p, platform),
	}}
}

func (f *fakeController) Send(text string) (chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return chat.Message{}, f.sendErr
	}
	f.sent = append(f.sent, text)
	return chat.NewMessage(chat.SenderUser, text), nil
}

func (f *fakeController) SetTheme(p theme.Preference) error {
	if !p.Valid() {
		return theme.ErrInvalidPreference
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Preference = p
	f.state.Effective = theme.Resolve(p, f.state.Platform)
	return nil
}

func (f *fakeController) ThemeState() theme.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeController) StartVoice() error {
	if f.voiceErr != nil {
		return f.voiceErr
	}
	f.voiceOn = true
	return nil
}

func (f *fakeController) CancelVoice() error {
	f.voiceOn = false
	return nil
}

func (f *fakeController) ClearHistory() { f.cleared++ }

func newReadyModel(t *testing.T, ctrl Controller) Model {
	t.Helper()
	m := NewModel(ctrl, nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestModel_InitialThemeFromController(t *testing.T) {
	ctrl := newFakeController(theme.PreferenceSystem, theme.ModeDark)
	m := newReadyModel(t, ctrl)

	assert.Equal(t, theme.ModeDark, m.theme.Mode)
	assert.Equal(t, theme.PreferenceSystem, m.state.Preference)
	assert.Contains(t, m.View(), "system (dark)")
}

func TestModel_ThemeChangedRereadsController(t *testing.T) {
	ctrl := newFakeController(theme.PreferenceSystem, theme.ModeLight)
	m := newReadyModel(t, ctrl)
	require.Equal(t, theme.ModeLight, m.theme.Mode)

	require.NoError(t, ctrl.SetTheme(theme.PreferenceDark))

	m, _ = update(t, m, ThemeChangedMsg{})
	assert.Equal(t, theme.ModeDark, m.theme.Mode)
	assert.Equal(t, theme.PreferenceDark, m.state.Preference)
}

func TestModel_ThemeCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		start theme.Preference
		want  theme.Preference
	}{
		{"explicit dark", "/theme dark", theme.PreferenceSystem, theme.PreferenceDark},
		{"explicit system", "/theme System", theme.PreferenceLight, theme.PreferenceSystem},
		{"cycle", "/theme", theme.PreferenceLight, theme.PreferenceDark},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newFakeController(tt.start, theme.ModeLight)
			m := newReadyModel(t, ctrl)
			m = typeText(t, m, tt.input)

			m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
			require.NotNil(t, cmd)
			msg := cmd()
			_, ok := msg.(ThemeChangedMsg)
			require.True(t, ok, "got %T", msg)

			m, _ = update(t, m, msg)
			assert.Equal(t, tt.want, m.state.Preference)
			assert.Empty(t, m.input.Value())
		})
	}
}

func TestModel_ThemeCommandRejectsUnknown(t *testing.T) {
	ctrl := newFakeController(theme.PreferenceLight, theme.ModeLight)
	m := newReadyModel(t, ctrl)
	m = typeText(t, m, "/theme blue")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(ErrorMsg)
	assert.True(t, ok)
	assert.Equal(t, theme.PreferenceLight, ctrl.ThemeState().Preference)
}

func TestModel_SendMessage(t *testing.T) {
	ctrl := newFakeController(theme.PreferenceLight, theme.ModeLight)
	m := newReadyModel(t, ctrl)
	m = typeText(t, m, "hello")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	received, ok := msg.(MessageReceivedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "hello", received.Message.Text)
	assert.Equal(t, []string{"hello"}, ctrl.sent)

	m, _ = update(t, m, msg)
	assert.Equal(t, 1, m.conversation.Len())
}

func TestModel_SendErrorShowsInStatus(t *testing.T) {
	ctrl := newFakeController(theme.PreferenceLight, theme.ModeLight)
	ctrl.sendErr = errors.New("boom")
	m := newReadyModel(t, ctrl)
	m = typeText(t, m, "hello")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())
	assert.Equal(t, "boom", m.statusBar.errorText)
}

func TestModel_BlankInputIgnored(t *testing.T) {
	m := newReadyModel(t, newFakeController(theme.PreferenceLight, theme.ModeLight))
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestModel_TabSwitchAndToggle(t *testing.T) {
	ctrl := newFakeController(theme.PreferenceSystem, theme.ModeDark)
	m := newReadyModel(t, ctrl)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, TabSettings, m.tab)

	// System shows the switch off, so toggling selects dark.
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, theme.PreferenceDark, m.state.Preference)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = update(t, m, cmd())
	assert.Equal(t, theme.PreferenceLight, m.state.Preference)
	assert.Equal(t, theme.ModeLight, m.theme.Mode)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, TabChat, m.tab)
}

func TestModel_SettingsCommand(t *testing.T) {
	m := newReadyModel(t, newFakeController(theme.PreferenceLight, theme.ModeLight))
	m = typeText(t, m, "/settings")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())
	assert.Equal(t, TabSettings, m.tab)
	assert.Contains(t, m.View(), "Light Mode")
}

func TestModel_ClearCommand(t *testing.T) {
	ctrl := newFakeController(theme.PreferenceLight, theme.ModeLight)
	m := newReadyModel(t, ctrl)
	m, _ = update(t, m, MessageReceivedMsg{Message: chat.NewMessage(chat.SenderBot, "hi")})
	require.Equal(t, 1, m.conversation.Len())

	m = typeText(t, m, "/clear")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())

	assert.Equal(t, 1, ctrl.cleared)
	assert.Equal(t, 0, m.conversation.Len())
}

func TestModel_VoiceOverlay(t *testing.T) {
	ctrl := newFakeController(theme.PreferenceLight, theme.ModeLight)
	m := newReadyModel(t, ctrl)
	m = typeText(t, m, "/voice")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd())
	assert.True(t, ctrl.voiceOn)

	m, _ = update(t, m, VoiceStateMsg{State: features.VoiceListening})
	require.True(t, m.voice.Active())
	assert.Contains(t, m.View(), "Listening...")

	// Keys other than esc are swallowed while the overlay is up.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabChat, m.tab)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	cmd()
	assert.False(t, ctrl.voiceOn)

	m, _ = update(t, m, VoiceStateMsg{State: features.VoiceIdle})
	assert.False(t, m.voice.Active())
}

func TestModel_UnknownCommandWarns(t *testing.T) {
	m := newReadyModel(t, newFakeController(theme.PreferenceLight, theme.ModeLight))
	m = typeText(t, m, "/nope")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	warn, ok := cmd().(WarningMsg)
	require.True(t, ok)
	assert.Contains(t, warn.Warning, "/nope")
}

func TestModel_TooSmall(t *testing.T) {
	m := NewModel(newFakeController(theme.PreferenceLight, theme.ModeLight), nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	assert.Contains(t, m.View(), "Terminal too small")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "héllo w...", truncate("héllo wörld!", 10))
}

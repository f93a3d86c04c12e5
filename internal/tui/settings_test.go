package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/xonecas/echochat/internal/theme"
)

func TestSwitchEnabled(t *testing.T) {
	assert.True(t, switchEnabled(theme.PreferenceDark))
	assert.False(t, switchEnabled(theme.PreferenceLight))
	assert.False(t, switchEnabled(theme.PreferenceSystem))
}

func TestToggleTarget(t *testing.T) {
	tests := []struct {
		from theme.Preference
		want theme.Preference
	}{
		{theme.PreferenceDark, theme.PreferenceLight},
		{theme.PreferenceLight, theme.PreferenceDark},
		{theme.PreferenceSystem, theme.PreferenceDark},
	}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, toggleTarget(tt.from))
		})
	}
}

func TestPreferenceLabel(t *testing.T) {
	assert.Equal(t, "System Theme", preferenceLabel(theme.PreferenceSystem))
	assert.Equal(t, "Light Mode", preferenceLabel(theme.PreferenceLight))
	assert.Equal(t, "Dark Mode", preferenceLabel(theme.PreferenceDark))
}

func TestSettingsAction(t *testing.T) {
	runes := func(s string) tea.KeyMsg {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		current theme.Preference
		want    theme.Preference
		ok      bool
	}{
		{"space toggles system", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, theme.PreferenceSystem, theme.PreferenceDark, true},
		{"enter toggles dark", tea.KeyMsg{Type: tea.KeyEnter}, theme.PreferenceDark, theme.PreferenceLight, true},
		{"cycle from system", runes("c"), theme.PreferenceSystem, theme.PreferenceLight, true},
		{"cycle from dark", runes("c"), theme.PreferenceDark, theme.PreferenceSystem, true},
		{"light", runes("l"), theme.PreferenceDark, theme.PreferenceLight, true},
		{"dark", runes("d"), theme.PreferenceLight, theme.PreferenceDark, true},
		{"system", runes("s"), theme.PreferenceLight, theme.PreferenceSystem, true},
		{"unhandled", runes("x"), theme.PreferenceLight, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := settingsAction(tt.msg, tt.current)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderSettings_ShowsCurrentPreference(t *testing.T) {
	state := theme.State{
		Preference: theme.PreferenceSystem,
		Effective:  theme.ModeDark,
		Platform:   theme.ModeDark,
	}
	out := renderSettings(NewTheme(state.Effective), state, 60, 14)

	assert.Contains(t, out, "System Theme")
	assert.Contains(t, out, "OFF")
	assert.Contains(t, out, "Effective: dark")
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/echochat/internal/theme"
)

// settingsKeys are the Settings tab bindings.
var settingsKeys = struct {
	Toggle key.Binding
	Cycle  key.Binding
	Light  key.Binding
	Dark   key.Binding
	System key.Binding
}{
	Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle dark mode")),
	Cycle:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle theme")),
	Light:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "light")),
	Dark:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dark")),
	System: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "system")),
}

// switchEnabled reports whether the dark-mode switch is drawn as on.
// Only an explicit dark preference counts; system shows off even when the
// platform is dark.
func switchEnabled(p theme.Preference) bool {
	return p == theme.PreferenceDark
}

// toggleTarget is the preference the switch sets when flipped.
func toggleTarget(p theme.Preference) theme.Preference {
	if switchEnabled(p) {
		return theme.PreferenceLight
	}
	return theme.PreferenceDark
}

// preferenceLabel is the human-readable preference name.
func preferenceLabel(p theme.Preference) string {
	switch p {
	case theme.PreferenceLight:
		return "Light Mode"
	case theme.PreferenceDark:
		return "Dark Mode"
	default:
		return "System Theme"
	}
}

// settingsAction maps a key on the Settings tab to the preference it
// selects. ok is false for keys the tab does not handle.
func settingsAction(msg tea.KeyMsg, current theme.Preference) (theme.Preference, bool) {
	switch {
	case key.Matches(msg, settingsKeys.Toggle):
		return toggleTarget(current), true
	case key.Matches(msg, settingsKeys.Cycle):
		return current.Next(), true
	case key.Matches(msg, settingsKeys.Light):
		return theme.PreferenceLight, true
	case key.Matches(msg, settingsKeys.Dark):
		return theme.PreferenceDark, true
	case key.Matches(msg, settingsKeys.System):
		return theme.PreferenceSystem, true
	}
	return "", false
}

// renderSettings draws the Settings tab body.
func renderSettings(th Theme, state theme.State, width, height int) string {
	sw := th.SwitchOff.Render(" OFF ")
	if switchEnabled(state.Preference) {
		sw = th.SwitchOn.Render(" ON  ")
	}

	row := func(label, value string) string {
		gap := width - 4 - lipgloss.Width(label) - lipgloss.Width(value)
		if gap < 1 {
			gap = 1
		}
		return th.Base.Render("  "+label+strings.Repeat(" ", gap)) + value
	}

	lines := []string{
		th.Fill(width, ""),
		th.Fill(width, th.Title.Render("  Appearance")),
		th.Fill(width, ""),
		th.Fill(width, row("Dark Mode", sw)),
		th.Fill(width, ""),
		th.Fill(width, "  "+th.Button.Render("Cycle theme")),
		th.Fill(width, ""),
		th.Fill(width, th.Dimmed.Render("  Current: ")+th.Selected.Render(preferenceLabel(state.Preference))),
		th.Fill(width, th.Dimmed.Render("  Platform: "+state.Platform.String()+"  Effective: "+state.Effective.String())),
		th.Fill(width, ""),
		th.Fill(width, th.Dimmed.Render("  space toggle · c cycle · l light · d dark · s system")),
	}

	return lipgloss.NewStyle().
		Background(th.Palette.Bg).
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

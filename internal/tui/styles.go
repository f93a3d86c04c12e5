package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/echochat/internal/chat"
	"github.com/xonecas/echochat/internal/styles"
	"github.com/xonecas/echochat/internal/theme"
)

// Theme is every style the TUI draws with, derived from one palette.
// It is rebuilt from scratch whenever the effective theme changes.
type Theme struct {
	Mode    theme.Mode
	Palette styles.Palette

	Base lipgloss.Style
	Log  lipgloss.Style

	// Chat bubbles
	UserBubble lipgloss.Style
	BotBubble  lipgloss.Style
	Timestamp  lipgloss.Style

	// Input
	InputBorder      lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	SendButton       lipgloss.Style

	// Tabs and headings
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Title       lipgloss.Style

	// Settings
	SwitchOn  lipgloss.Style
	SwitchOff lipgloss.Style
	Button    lipgloss.Style
	Selected  lipgloss.Style

	// Voice overlay
	Overlay     lipgloss.Style
	OverlayWave lipgloss.Style

	// Status bar
	StatusBar       lipgloss.Style
	StatusText      lipgloss.Style
	StatusTextError lipgloss.Style
	StatusTextOK    lipgloss.Style
	IconBot         lipgloss.Style
	IconVoice       lipgloss.Style
	IconWarning     lipgloss.Style
	IconError       lipgloss.Style

	Dimmed lipgloss.Style
}

// NewTheme builds the styles for an effective theme.
func NewTheme(mode theme.Mode) Theme {
	p := styles.For(mode)
	t := Theme{Mode: mode, Palette: p}

	t.Base = lipgloss.NewStyle().
		Background(p.Bg).
		Foreground(p.Fg)

	t.Log = lipgloss.NewStyle().
		Background(p.Bg)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(p.OnTint).
		Background(p.Tint).
		Padding(0, 1)

	t.BotBubble = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.BotBg).
		Padding(0, 1)
	if mode.IsDark() {
		t.BotBubble = t.BotBubble.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			BorderBackground(p.Bg)
	}

	t.Timestamp = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.Bg)

	t.InputBorder = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false). // Top border only
		BorderForeground(p.Border).
		BorderBackground(p.Bg).
		Background(p.Bg).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(p.Tint).
		Background(p.InputBg).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.InputBg)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.InputBg).
		Italic(true)

	t.SendButton = lipgloss.NewStyle().
		Foreground(p.OnTint).
		Background(p.Tint).
		Bold(true).
		Padding(0, 1)

	t.TabActive = lipgloss.NewStyle().
		Foreground(p.OnTint).
		Background(p.Tint).
		Bold(true).
		Padding(0, 2)

	t.TabInactive = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.BgAlt).
		Padding(0, 2)

	t.Title = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.Bg).
		Bold(true)

	t.SwitchOn = lipgloss.NewStyle().
		Foreground(p.OnTint).
		Background(p.Tint).
		Bold(true)

	t.SwitchOff = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.Border)

	t.Button = lipgloss.NewStyle().
		Foreground(p.Tint).
		Background(p.BgAlt).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Tint).
		BorderBackground(p.Bg).
		Padding(0, 2)

	t.Selected = lipgloss.NewStyle().
		Foreground(p.Tint).
		Background(p.Bg).
		Bold(true)

	t.Overlay = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.BgAlt).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Tint).
		BorderBackground(p.Bg).
		Padding(1, 4).
		Align(lipgloss.Center)

	t.OverlayWave = lipgloss.NewStyle().
		Foreground(p.Tint).
		Background(p.BgAlt).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false). // Top border only
		BorderForeground(p.Border).
		BorderBackground(p.Bg).
		Background(p.Bg)

	t.StatusText = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.Bg)

	t.StatusTextError = lipgloss.NewStyle().
		Foreground(p.Error).
		Background(p.Bg)

	t.StatusTextOK = lipgloss.NewStyle().
		Foreground(p.Success).
		Background(p.Bg)

	icon := lipgloss.NewStyle().
		Background(p.Bg).
		Width(3).
		Align(lipgloss.Center)
	t.IconBot = icon.Foreground(p.Tint)
	t.IconVoice = icon.Foreground(p.Success)
	t.IconWarning = icon.Foreground(p.Warning)
	t.IconError = icon.Foreground(p.Error)

	t.Dimmed = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.Bg)

	return t
}

// Bubble returns the bubble style for a sender.
func (t Theme) Bubble(sender chat.Sender) lipgloss.Style {
	if sender == chat.SenderUser {
		return t.UserBubble
	}
	return t.BotBubble
}

// Fill renders s on a full-width line with the background color.
func (t Theme) Fill(width int, s string) string {
	return lipgloss.NewStyle().
		Background(t.Palette.Bg).
		Width(width).
		Render(s)
}

// Package styles provides the light and dark color palettes.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/echochat/internal/theme"
)

// Palette is the set of colors a screen is drawn with.
type Palette struct {
	Bg      lipgloss.Color
	BgAlt   lipgloss.Color
	Fg      lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Tint    lipgloss.Color // user bubbles, send button, accents
	OnTint  lipgloss.Color // text drawn on Tint
	BotBg   lipgloss.Color
	InputBg lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
}

var (
	// Light mirrors the classic iOS-style chat: blue bubbles on white.
	Light = Palette{
		Bg:      lipgloss.Color("#FFFFFF"),
		BgAlt:   lipgloss.Color("#F2F2F7"),
		Fg:      lipgloss.Color("#11181C"),
		Muted:   lipgloss.Color("#777777"),
		Border:  lipgloss.Color("#CCCCCC"),
		Tint:    lipgloss.Color("#0A7EA4"),
		OnTint:  lipgloss.Color("#FFFFFF"),
		BotBg:   lipgloss.Color("#E5E5EA"),
		InputBg: lipgloss.Color("#FFFFFF"),
		Warning: lipgloss.Color("#B58900"),
		Error:   lipgloss.Color("#D70040"),
		Success: lipgloss.Color("#2E8B57"),
	}

	// Dark keeps the same layout with muted surfaces.
	Dark = Palette{
		Bg:      lipgloss.Color("#151718"),
		BgAlt:   lipgloss.Color("#1F2123"),
		Fg:      lipgloss.Color("#ECEDEE"),
		Muted:   lipgloss.Color("#999999"),
		Border:  lipgloss.Color("#555555"),
		Tint:    lipgloss.Color("#FFFFFF"),
		OnTint:  lipgloss.Color("#000000"),
		BotBg:   lipgloss.Color("#444444"),
		InputBg: lipgloss.Color("#333333"),
		Warning: lipgloss.Color("#FFCC00"),
		Error:   lipgloss.Color("#FF3366"),
		Success: lipgloss.Color("#00FF66"),
	}
)

// For returns the palette for an effective theme.
func For(mode theme.Mode) Palette {
	if mode.IsDark() {
		return Dark
	}
	return Light
}

// Text styles for line-mode and command output. They use adaptive colors so
// they read well on whatever background the terminal has.
var (
	Brand = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: string(Light.Tint), Dark: "#5FD7FF"})

	BrandBold = Brand.Bold(true)

	Secondary = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0A7EA4", Dark: "#87AFFF"})

	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: string(Light.Muted), Dark: string(Dark.Muted)})

	Bot = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: string(Light.Fg), Dark: string(Dark.Fg)})

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: string(Light.Error), Dark: string(Dark.Error)}).
		Bold(true)

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: string(Light.Success), Dark: string(Dark.Success)}).
		Bold(true)
)

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/echochat/internal/features"
)

const voiceFrameRate = time.Second / 6

// VoiceTickMsg advances the overlay animation.
type VoiceTickMsg struct{}

var waveFrames = []string{
	"▁▂▃▄▅▄▃▂▁",
	"▂▃▄▅▆▅▄▃▂",
	"▃▄▅▆▇▆▅▄▃",
	"▄▅▆▇█▇▆▅▄",
	"▃▄▅▆▇▆▅▄▃",
	"▂▃▄▅▆▅▄▃▂",
}

// VoiceOverlay is the modal shown while the voice assistant is active.
type VoiceOverlay struct {
	state features.VoiceState
	frame int
	text  string
}

// Active reports whether the overlay should be drawn.
func (v VoiceOverlay) Active() bool {
	return v.state != features.VoiceIdle
}

// SetState updates the phase. Returns the tick command when the overlay
// becomes active.
func (v *VoiceOverlay) SetState(state features.VoiceState) tea.Cmd {
	wasActive := v.Active()
	v.state = state
	if state == features.VoiceIdle {
		v.text = ""
		v.frame = 0
		return nil
	}
	if !wasActive {
		return voiceTick()
	}
	return nil
}

// SetText shows the latest transcript or response.
func (v *VoiceOverlay) SetText(text string) {
	v.text = text
}

// Update advances the animation while active.
func (v VoiceOverlay) Update(msg tea.Msg) (VoiceOverlay, tea.Cmd) {
	if _, ok := msg.(VoiceTickMsg); ok && v.Active() {
		v.frame = (v.frame + 1) % len(waveFrames)
		return v, voiceTick()
	}
	return v, nil
}

func voiceTick() tea.Cmd {
	return tea.Tick(voiceFrameRate, func(time.Time) tea.Msg {
		return VoiceTickMsg{}
	})
}

// View renders the overlay centered in width x height.
func (v VoiceOverlay) View(th Theme, width, height int) string {
	title := "Listening..."
	if v.state == features.VoiceResponding {
		title = "Responding..."
	}

	wave := waveFrames[v.frame]
	if v.state == features.VoiceResponding {
		wave = waveFrames[(len(waveFrames)-v.frame)%len(waveFrames)]
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		th.OverlayWave.Render(title),
		"",
		th.OverlayWave.Render(wave),
		"",
		v.text,
		"",
		"esc to cancel",
	)

	box := th.Overlay.Width(min(width-4, 48)).Render(body)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceBackground(th.Palette.Bg))
}

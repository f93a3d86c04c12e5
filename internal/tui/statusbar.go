package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/echochat/internal/theme"
)

// StatusBar manages the bottom status bar with animated icons and status text.
type StatusBar struct {
	width int

	// Icon animation state
	botFrames     int // Remaining animation frames for bot icon
	voiceFrames   int // Remaining animation frames for voice icon
	warningFrames int // Remaining animation frames for warning icon
	errorFrames   int // Remaining animation frames for error icon

	currentFrame int // Current animation frame (0-11 for 12 frames @ 8 FPS)

	// Status text
	errorText   string
	warningText string
	infoText    string
}

const (
	animationFPSFast     = 8                                                  // 8 frames per second (fast animation at start)
	animationFPSSlow     = 2                                                  // 2 frames per second (slow animation during deceleration)
	framesPerCycle       = 12                                                 // 12 frames in one complete cycle
	fastCycles           = 2                                                  // Number of fast cycles before deceleration
	decelerationFrames   = 12                                                 // Number of frames for deceleration phase
	totalAnimationFrames = (fastCycles * framesPerCycle) + decelerationFrames // 24 + 12 = 36
)

// StatusBarTickMsg is sent every animation frame.
type StatusBarTickMsg struct{}

// NewStatusBar creates a new status bar.
func NewStatusBar(width int) StatusBar {
	return StatusBar{
		width: width,
	}
}

// Init initializes the status bar.
func (s StatusBar) Init() tea.Cmd {
	return s.tick()
}

// maxFrames returns the maximum frame count across all icons.
func (s StatusBar) maxFrames() int {
	return max(s.botFrames, s.voiceFrames, s.warningFrames, s.errorFrames)
}

// tick returns a command that sends a tick message after the animation interval.
// The tick rate varies: fast during initial cycles, slow during deceleration, stops when idle.
func (s StatusBar) tick() tea.Cmd {
	maxFrames := s.maxFrames()
	if maxFrames == 0 {
		return nil // Stop ticking when idle
	}

	tickRate := time.Second / animationFPSSlow
	if maxFrames > decelerationFrames {
		tickRate = time.Second / animationFPSFast
	}

	return tea.Tick(tickRate, func(time.Time) tea.Msg {
		return StatusBarTickMsg{}
	})
}

// Update handles status bar updates.
func (s StatusBar) Update(msg tea.Msg) (StatusBar, tea.Cmd) {
	if _, ok := msg.(StatusBarTickMsg); ok {
		s.currentFrame = (s.currentFrame + 1) % framesPerCycle

		if s.botFrames > 0 {
			s.botFrames--
		}
		if s.voiceFrames > 0 {
			s.voiceFrames--
		}
		if s.warningFrames > 0 {
			s.warningFrames--
		}
		if s.errorFrames > 0 {
			s.errorFrames--
		}

		return s, s.tick()
	}

	return s, nil
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// animate resets one icon counter to a full cycle. Returns a command to
// restart ticking when the bar was idle.
func (s *StatusBar) animate(frames *int) tea.Cmd {
	wasIdle := s.maxFrames() == 0
	*frames = totalAnimationFrames
	if wasIdle {
		return s.tick()
	}
	return nil
}

// AnimateBot triggers the bot icon animation.
func (s *StatusBar) AnimateBot() tea.Cmd {
	return s.animate(&s.botFrames)
}

// AnimateVoice triggers the voice icon animation.
func (s *StatusBar) AnimateVoice() tea.Cmd {
	return s.animate(&s.voiceFrames)
}

// SetWarning sets the warning text.
func (s *StatusBar) SetWarning(text string) tea.Cmd {
	s.warningText = text
	return s.animate(&s.warningFrames)
}

// ClearWarning clears the warning text.
func (s *StatusBar) ClearWarning() {
	s.warningText = ""
}

// SetError sets the error text.
func (s *StatusBar) SetError(text string) tea.Cmd {
	s.errorText = text
	return s.animate(&s.errorFrames)
}

// ClearError clears the error text.
func (s *StatusBar) ClearError() {
	s.errorText = ""
}

// SetInfo sets transient informational text, such as the voice phase.
func (s *StatusBar) SetInfo(text string) {
	s.infoText = text
}

// ClearInfo clears the informational text.
func (s *StatusBar) ClearInfo() {
	s.infoText = ""
}

// View renders the status bar.
func (s StatusBar) View(th Theme, state theme.State) string {
	// Left side: status icon column (4 icons × 3 chars each = 12 chars)
	leftIconColumn := th.IconBot.Render(s.renderIcon(s.botFrames, botIcons)) +
		th.IconVoice.Render(s.renderIcon(s.voiceFrames, voiceIcons)) +
		th.IconWarning.Render(s.renderIcon(s.warningFrames, warningIcons)) +
		th.IconError.Render(s.renderIcon(s.errorFrames, errorIcons))

	spaceStyle := lipgloss.NewStyle().Background(th.Palette.Bg)
	leftIconsPart := spaceStyle.Render(" ") + leftIconColumn + spaceStyle.Render(" ") // 14 chars

	// Right side: theme label
	label := themeLabel(state)
	rightPart := th.StatusText.Render(label) + spaceStyle.Render(" ")

	availableWidth := s.width - lipgloss.Width(leftIconsPart) - lipgloss.Width(rightPart)
	if availableWidth < 0 {
		availableWidth = 0
	}

	statusTextPlain, statusTextStyle := s.renderStatusText(th)
	if availableWidth < 3 {
		statusTextPlain = ""
	} else {
		statusTextPlain = truncate(statusTextPlain, availableWidth)
	}

	textPart := statusTextStyle.Width(availableWidth).Render(statusTextPlain)

	return th.StatusBar.Render(leftIconsPart + textPart + rightPart)
}

// themeLabel renders the preference and what it resolved to.
func themeLabel(state theme.State) string {
	return state.Preference.String() + " (" + state.Effective.String() + ")"
}

// renderIcon renders an icon based on animation state.
// When idle (frames=0), shows the baseline frame (last in sequence).
func (s StatusBar) renderIcon(frames int, icons []string) string {
	if frames <= 0 {
		return icons[len(icons)-1]
	}
	return icons[s.currentFrame%len(icons)]
}

// renderStatusText returns the appropriate status text and style.
// Priority: Error > Warning > Info > Default
func (s StatusBar) renderStatusText(th Theme) (string, lipgloss.Style) {
	if s.errorText != "" {
		return s.errorText, th.StatusTextError
	}
	if s.warningText != "" {
		return s.warningText, th.StatusText
	}
	if s.infoText != "" {
		return "⟳ " + s.infoText, th.StatusText
	}
	return "Ready", th.StatusTextOK
}

// Icon animation sequences. Each ends at its baseline frame.
var (
	// Bot: pulsing dot, ends at ◌
	botIcons = []string{"●", "●", "◉", "◉", "◎", "◎", "○", "○", "◌", "◌", "○", "◌"}

	// Voice: rotating half circle, ends at ○
	voiceIcons = []string{"◐", "◓", "◑", "◒", "◐", "◓", "◑", "◒", "○", "◌", "○", "○"}

	// Warning: pulsing diamond, ends at ◇
	warningIcons = []string{"◆", "◆", "◈", "◈", "◇", "◇", "◈", "◈", "◆", "◆", "◈", "◇"}

	// Error: flashing X, ends at space
	errorIcons = []string{"✖", "✖", "✖", "✕", "✕", "✕", "✖", "✕", "✕", " ", "✕", " "}
)

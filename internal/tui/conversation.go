package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/echochat/internal/chat"
)

// Conversation manages the chat log viewport.
type Conversation struct {
	viewport viewport.Model
	messages []chat.Message
	theme    Theme
	width    int
	height   int
}

// NewConversation creates a new conversation viewport.
func NewConversation(width, height int, th Theme) Conversation {
	vp := viewport.New(width, height)
	vp.Style = th.Log

	c := Conversation{
		viewport: vp,
		messages: []chat.Message{},
		theme:    th,
		width:    width,
		height:   height,
	}
	c.updateContent()
	return c
}

// SetSize updates the viewport size.
func (c *Conversation) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.viewport.Width = width
	c.viewport.Height = height
	c.updateContent()
}

// SetTheme re-renders every bubble with new styles.
func (c *Conversation) SetTheme(th Theme) {
	c.theme = th
	c.viewport.Style = th.Log
	c.updateContent()
}

// SetMessages replaces the conversation and re-renders.
func (c *Conversation) SetMessages(messages []chat.Message) {
	c.messages = messages
	c.updateContent()
}

// AddMessage appends a message and re-renders.
func (c *Conversation) AddMessage(msg chat.Message) {
	c.messages = append(c.messages, msg)
	c.updateContent()
}

// Len returns the number of displayed messages.
func (c Conversation) Len() int {
	return len(c.messages)
}

// updateContent renders all messages and sets viewport content.
func (c *Conversation) updateContent() {
	if len(c.messages) == 0 {
		c.viewport.SetContent(c.theme.Fill(c.width, c.theme.Dimmed.Render("Say something. The bot will echo it back.")))
		return
	}

	// Remember if user was at bottom before updating
	wasAtBottom := c.viewport.AtBottom()

	var lines []string
	for _, msg := range c.messages {
		lines = append(lines, c.renderMessage(msg))
		lines = append(lines, c.theme.Fill(c.width, ""))
	}

	c.viewport.SetContent(strings.Join(lines, "\n"))

	if wasAtBottom {
		c.viewport.GotoBottom()
	}
}

// renderMessage renders one bubble: user on the right, bot on the left,
// at most 80% of the width.
func (c Conversation) renderMessage(msg chat.Message) string {
	maxWidth := c.width * 8 / 10
	if maxWidth < 10 {
		maxWidth = 10
	}

	text := msg.Text
	if lipgloss.Width(text) > maxWidth-2 {
		text = lipgloss.NewStyle().Width(maxWidth - 2).Render(text)
	}
	bubble := c.theme.Bubble(msg.Sender).Render(text)

	stamp := ""
	if !msg.CreatedAt.IsZero() {
		stamp = c.theme.Timestamp.Render(msg.CreatedAt.Format("15:04"))
	}

	block := lipgloss.JoinVertical(lipgloss.Left, bubble, stamp)
	align := lipgloss.Left
	if msg.Sender == chat.SenderUser {
		block = lipgloss.JoinVertical(lipgloss.Right, bubble, stamp)
		align = lipgloss.Right
	}

	return lipgloss.PlaceHorizontal(c.width, align, block,
		lipgloss.WithWhitespaceBackground(c.theme.Palette.Bg))
}

// Update handles viewport updates (scrolling, etc).
func (c Conversation) Update(msg tea.Msg) (Conversation, tea.Cmd) {
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

// View renders the conversation viewport.
func (c Conversation) View() string {
	return c.viewport.View()
}

// GotoBottom scrolls to the bottom.
func (c *Conversation) GotoBottom() {
	c.viewport.GotoBottom()
}

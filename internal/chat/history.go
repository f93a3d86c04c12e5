// Package chat holds the in-memory conversation shown on the chat screen.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is a single chat bubble.
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	CreatedAt time.Time
}

// NewMessage creates a message with a fresh ID and the current time.
func NewMessage(sender Sender, text string) Message {
	return Message{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    sender,
		CreatedAt: time.Now(),
	}
}

// History is the conversation. It is shared by the UI and the reply timers,
// so every access goes through the mutex.
type History struct {
	mu       sync.Mutex
	messages []Message
	max      int
}

// NewHistory creates a history that keeps at most max messages.
func NewHistory(max int) *History {
	if max <= 0 {
		max = 100
	}
	return &History{max: max}
}

// Add appends a message, dropping the oldest ones beyond the cap.
func (h *History) Add(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, msg)
	if len(h.messages) > h.max {
		h.messages = h.messages[len(h.messages)-h.max:]
		log.Debug().Int("trimmed_to", h.max).Msg("Trimmed chat history")
	}
}

// Messages returns a copy of the conversation.
func (h *History) Messages() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

// Clear removes all messages.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}

package features

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/echochat/internal/chat"
)

// ErrEmptyMessage is returned when the submitted text is blank.
var ErrEmptyMessage = errors.New("message is empty")

// EchoCallbacks defines the callback functions for echo bot events.
type EchoCallbacks struct {
	// OnTyping is called when a reply has been scheduled.
	OnTyping func()

	// OnReply is called from a timer goroutine when the reply is due.
	OnReply func(msg chat.Message)
}

// EchoService is the scripted bot: every submitted message is echoed back
// after a fixed delay. It is display-agnostic; the UI reacts via callbacks.
type EchoService struct {
	delay     time.Duration
	prefix    string
	callbacks EchoCallbacks

	mu      sync.Mutex
	timers  map[uint64]*time.Timer
	nextID  uint64
	stopped bool
}

// NewEchoService creates an echo bot that replies with prefix+text after delay.
func NewEchoService(delay time.Duration, prefix string, callbacks EchoCallbacks) *EchoService {
	return &EchoService{
		delay:     delay,
		prefix:    prefix,
		callbacks: callbacks,
		timers:    make(map[uint64]*time.Timer),
	}
}

// Submit records the user's message and schedules the bot reply.
func (s *EchoService) Submit(text string) (chat.Message, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Message{}, ErrEmptyMessage
	}

	userMsg := chat.NewMessage(chat.SenderUser, text)
	reply := s.prefix + text

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		log.Debug().Msg("Echo service stopped, not scheduling reply")
		return userMsg, nil
	}
	id := s.nextID
	s.nextID++
	// The timer callback takes s.mu first, so it cannot run before the timer is stored.
	s.timers[id] = time.AfterFunc(s.delay, func() { s.fire(id, reply) })
	s.mu.Unlock()

	if s.callbacks.OnTyping != nil {
		s.callbacks.OnTyping()
	}

	log.Debug().Str("message_id", userMsg.ID).Dur("delay", s.delay).Msg("Echo reply scheduled")
	return userMsg, nil
}

// Pending returns the number of replies not yet delivered.
func (s *EchoService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels pending replies. Later submissions are not answered.
func (s *EchoService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *EchoService) fire(id uint64, text string) {
	s.mu.Lock()
	if _, ok := s.timers[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.mu.Unlock()

	if s.callbacks.OnReply != nil {
		s.callbacks.OnReply(chat.NewMessage(chat.SenderBot, text))
	}
}

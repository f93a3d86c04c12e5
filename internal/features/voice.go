package features

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// VoiceState is the phase of the simulated voice assistant.
type VoiceState int

const (
	VoiceIdle VoiceState = iota
	VoiceListening
	VoiceResponding
)

func (v VoiceState) String() string {
	switch v {
	case VoiceListening:
		return "listening"
	case VoiceResponding:
		return "responding"
	default:
		return "idle"
	}
}

// VoiceCallbacks defines the callback functions for voice events.
// They are called from the service goroutine.
type VoiceCallbacks struct {
	// OnState is called on every phase change, including the return to idle.
	OnState func(state VoiceState)

	// OnTranscript is called with the canned "heard" text after listening.
	OnTranscript func(text string)

	// OnResponse is called with the canned assistant answer.
	OnResponse func(text string)
}

// VoiceOptions configures the scripted timings and phrases.
type VoiceOptions struct {
	ListenDuration time.Duration
	ResponseDelay  time.Duration
	Transcripts    []string
	Responses      []string
}

type voiceRun struct {
	cancel context.CancelFunc
	done   chan struct{} // Closed when the sequence goroutine exits
}

// VoiceService plays a scripted listen/respond sequence. There is no speech
// recognition: transcripts and responses rotate through fixed phrases.
type VoiceService struct {
	opts      VoiceOptions
	callbacks VoiceCallbacks

	mu      sync.Mutex
	state   VoiceState
	current *voiceRun
	last    *voiceRun
	next    int
}

// NewVoiceService creates a voice service.
func NewVoiceService(opts VoiceOptions, callbacks VoiceCallbacks) *VoiceService {
	return &VoiceService{
		opts:      opts,
		callbacks: callbacks,
	}
}

// Start begins a listen/respond sequence.
// Returns an error if a sequence is already running.
func (s *VoiceService) Start(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	if len(s.opts.Transcripts) == 0 || len(s.opts.Responses) == 0 {
		return fmt.Errorf("no voice phrases configured")
	}

	s.mu.Lock()
	if s.current != nil {
		s.mu.Unlock()
		return fmt.Errorf("voice assistant already active")
	}

	runCtx, cancel := context.WithCancel(ctx)
	run := &voiceRun{cancel: cancel, done: make(chan struct{})}
	s.current = run
	s.last = run

	transcript := s.opts.Transcripts[s.next%len(s.opts.Transcripts)]
	response := s.opts.Responses[s.next%len(s.opts.Responses)]
	s.next++
	s.mu.Unlock()

	log.Info().Str("transcript", transcript).Msg("Voice assistant started")

	go s.runSequence(runCtx, run, transcript, response)
	return nil
}

// Cancel aborts the running sequence and waits for its goroutine to exit.
// Returns an error if the assistant is idle. It must not be called from a
// callback.
func (s *VoiceService) Cancel() error {
	s.mu.Lock()
	run := s.current
	if run == nil {
		s.mu.Unlock()
		return fmt.Errorf("voice assistant not active")
	}
	run.cancel()
	s.current = nil
	s.state = VoiceIdle
	s.mu.Unlock()

	<-run.done

	log.Info().Msg("Voice assistant canceled")
	if s.callbacks.OnState != nil {
		s.callbacks.OnState(VoiceIdle)
	}
	return nil
}

// Done returns a channel that is closed once the most recently started
// sequence has fully exited. It is already closed if none was started.
func (s *VoiceService) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return s.last.done
}

// Stop cancels any running sequence and waits for it to exit.
func (s *VoiceService) Stop() {
	_ = s.Cancel()
	<-s.Done()
}

// State returns the current phase.
func (s *VoiceService) State() VoiceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *VoiceService) runSequence(ctx context.Context, run *voiceRun, transcript, response string) {
	defer func() {
		run.cancel()
		s.mu.Lock()
		owned := s.current == run
		if owned {
			s.current = nil
			s.state = VoiceIdle
		}
		s.mu.Unlock()

		if owned && s.callbacks.OnState != nil {
			s.callbacks.OnState(VoiceIdle)
		}
		log.Debug().Msg("Voice sequence finished")
		close(run.done)
	}()

	if !s.enter(run, VoiceListening) || !sleepCtx(ctx, s.opts.ListenDuration) {
		return
	}
	if !s.emit(ctx, s.callbacks.OnTranscript, transcript) {
		return
	}

	if !s.enter(run, VoiceResponding) || !sleepCtx(ctx, s.opts.ResponseDelay) {
		return
	}
	s.emit(ctx, s.callbacks.OnResponse, response)
}

// enter switches phase if run is still the active sequence.
func (s *VoiceService) enter(run *voiceRun, state VoiceState) bool {
	s.mu.Lock()
	if s.current != run {
		s.mu.Unlock()
		return false
	}
	s.state = state
	s.mu.Unlock()

	if s.callbacks.OnState != nil {
		s.callbacks.OnState(state)
	}
	return true
}

func (s *VoiceService) emit(ctx context.Context, fn func(string), text string) bool {
	if ctx.Err() != nil {
		return false
	}
	if fn != nil {
		fn(text)
	}
	return true
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

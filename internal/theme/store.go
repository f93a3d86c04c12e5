package theme

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/echochat/internal/constants"
)

// KV is the opaque key-value store the preference is persisted in.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// discardKV stands in for a missing KV: nothing is found and writes are
// dropped, so the preference lasts for the process only.
type discardKV struct{}

func (discardKV) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (discardKV) Set(context.Context, string, string) error { return nil }

// PlatformSource reports the platform color scheme and notifies on change.
type PlatformSource interface {
	Current() Mode
	// OnChange registers a callback and returns a function that removes it.
	OnChange(callback func(Mode)) func()
}

// State is a snapshot of the store handed to subscribers.
type State struct {
	Preference Preference
	Effective  Mode
	Platform   Mode
}

type subscriber struct {
	fn     func(State)
	active atomic.Bool
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithTimeout bounds each storage read and write.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Store holds the theme preference, resolves the effective theme and mirrors
// the preference to a KV store. In-memory updates are synchronous; storage
// reads and writes happen in the background and only affect durability.
type Store struct {
	kv      KV
	key     string
	timeout time.Duration

	mu         sync.RWMutex
	preference Preference
	platform   Mode
	effective  Mode
	userSet    bool // SetTheme was called; a late load must not override it
	subs       []*subscriber
	pending    *Preference
	closed     bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}

	initOnce  sync.Once
	ready     chan struct{}
	closeOnce sync.Once

	unsubPlatform func()
}

// NewStore creates a store with preference system, resolved against the
// platform's current scheme, and starts its persistence writer. A nil kv
// keeps the preference in memory only. Call Close to release it.
func NewStore(kv KV, platform PlatformSource, opts ...Option) *Store {
	if kv == nil {
		log.Warn().Msg("No theme storage configured, preference will not be persisted")
		kv = discardKV{}
	}

	s := &Store{
		kv:         kv,
		key:        constants.ThemePreferenceKey,
		timeout:    constants.PersistTimeout,
		preference: PreferenceSystem,
		platform:   ModeLight,
		wake:       make(chan struct{}, 1),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		ready:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if platform != nil {
		if m := platform.Current(); m.Valid() {
			s.platform = m
		}
	}
	s.effective = Resolve(s.preference, s.platform)

	if platform != nil {
		s.unsubPlatform = platform.OnChange(s.SetPlatform)
	}

	go s.persistLoop()
	return s
}

// Initialize starts loading the stored preference. Ready is closed once the
// attempt finished, whatever its outcome. Calls after the first are no-ops.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		go s.load(ctx)
	})
}

// Ready is closed when the load started by Initialize has finished.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) load(ctx context.Context) {
	defer close(s.ready)

	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	value, found, err := s.kv.Get(loadCtx, s.key)
	if err != nil {
		s.logPersistence("load", err)
		return
	}
	if !found {
		log.Debug().
			Err(&PersistenceError{Op: "load", Key: s.key, Err: ErrKeyAbsent}).
			Msg("No stored theme preference, keeping default")
		return
	}

	pref, err := ParsePreference(value)
	if err != nil {
		s.logPersistence("load", fmt.Errorf("%w: %q", ErrUnparseable, value))
		return
	}

	s.mu.Lock()
	if s.userSet {
		s.mu.Unlock()
		log.Debug().Str("stored", string(pref)).Msg("Theme changed before load finished, ignoring stored preference")
		return
	}
	state, changed := s.applyLocked(pref, s.platform)
	subs := s.subscribersLocked(changed)
	s.mu.Unlock()

	log.Info().
		Str("preference", string(state.Preference)).
		Str("effective", string(state.Effective)).
		Msg("Loaded theme preference")

	notify(subs, state)
}

// SetTheme updates the preference, recomputes the effective theme, notifies
// subscribers and queues the preference for persistence. The only error is
// ErrInvalidPreference; storage failures are logged.
func (s *Store) SetTheme(p Preference) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPreference, string(p))
	}

	s.mu.Lock()
	s.userSet = true
	state, changed := s.applyLocked(p, s.platform)
	subs := s.subscribersLocked(changed)
	s.queueWriteLocked(p)
	s.mu.Unlock()

	log.Info().
		Str("preference", string(state.Preference)).
		Str("effective", string(state.Effective)).
		Msg("Theme preference set")

	notify(subs, state)
	return nil
}

// SetPlatform records a new platform color scheme.
func (s *Store) SetPlatform(m Mode) {
	if !m.Valid() {
		log.Warn().Str("mode", string(m)).Msg("Ignoring invalid platform color scheme")
		return
	}

	s.mu.Lock()
	state, changed := s.applyLocked(s.preference, m)
	subs := s.subscribersLocked(changed)
	s.mu.Unlock()

	if changed {
		log.Debug().
			Str("platform", string(m)).
			Str("effective", string(state.Effective)).
			Msg("Platform color scheme changed")
	}
	notify(subs, state)
}

// Preference returns the user preference.
func (s *Store) Preference() Preference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preference
}

// Effective returns the resolved light or dark theme.
func (s *Store) Effective() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.effective
}

// State returns a consistent snapshot of preference, effective and platform.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

// Subscribe registers fn to be called after every state change. The returned
// function unsubscribes; it is safe to call more than once.
func (s *Store) Subscribe(fn func(State)) func() {
	sub := &subscriber{fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, existing := range s.subs {
				if existing == sub {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Close detaches from the platform source and flushes the pending write.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.unsubPlatform != nil {
			s.unsubPlatform()
		}
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.quit)
		<-s.done
	})
	return nil
}

// applyLocked sets preference and platform and recomputes the effective theme.
// Caller must hold the write lock.
func (s *Store) applyLocked(p Preference, platform Mode) (State, bool) {
	prev := s.stateLocked()
	s.preference = p
	s.platform = platform
	s.effective = Resolve(p, platform)
	next := s.stateLocked()
	return next, next != prev
}

func (s *Store) stateLocked() State {
	return State{
		Preference: s.preference,
		Effective:  s.effective,
		Platform:   s.platform,
	}
}

// subscribersLocked copies the subscriber list so callbacks run without the lock.
func (s *Store) subscribersLocked(changed bool) []*subscriber {
	if !changed || len(s.subs) == 0 {
		return nil
	}
	subs := make([]*subscriber, len(s.subs))
	copy(subs, s.subs)
	return subs
}

func notify(subs []*subscriber, state State) {
	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(state)
		}
	}
}

// queueWriteLocked replaces any unwritten value and wakes the writer.
func (s *Store) queueWriteLocked(p Preference) {
	if s.closed {
		log.Warn().Str("preference", string(p)).Msg("Theme store closed, preference not persisted")
		return
	}
	s.pending = &p
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// persistLoop is the single writer, so writes reach the KV in call order.
func (s *Store) persistLoop() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.flush()
		case <-s.quit:
			s.flush()
			return
		}
	}
}

func (s *Store) flush() {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()

	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.kv.Set(ctx, s.key, string(*p)); err != nil {
		s.logPersistence("save", err)
		return
	}
	log.Debug().Str("key", s.key).Str("value", string(*p)).Msg("Persisted theme preference")
}

func (s *Store) logPersistence(op string, err error) {
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		perr = &PersistenceError{Op: op, Key: s.key, Err: err}
	}
	log.Warn().Err(perr).Msg("Theme preference persistence failed")
}

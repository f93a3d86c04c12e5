// Package platform reports the host's light/dark color scheme.
package platform

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/echochat/internal/theme"
)

const (
	// SourceFallback indicates no detector provided the scheme.
	SourceFallback = "fallback"
	// SourceConfig indicates the scheme came from the config override.
	SourceConfig = "config"
)

// Detector detects the platform color scheme.
type Detector interface {
	// Name returns a human-readable name for this detector.
	Name() string

	// Priority returns the detector's priority. Higher values are checked first.
	Priority() int

	// Available reports whether this detector can be used at all.
	Available() bool

	// Detect returns whether the platform prefers dark and whether detection succeeded.
	Detect() (prefersDark bool, ok bool)
}

// Scheme is a detected color scheme and where it came from.
type Scheme struct {
	Mode   theme.Mode
	Source string
}

type callbackWrapper struct {
	fn func(theme.Mode)
}

// Resolver picks the platform scheme from a config override or the
// highest-priority detector that succeeds, falling back to light.
// It implements theme.PlatformSource.
type Resolver struct {
	mu        sync.RWMutex
	override  theme.Mode
	detectors []Detector
	current   Scheme
	callbacks []*callbackWrapper
}

// NewResolver creates a resolver. override is "light", "dark" or "" to detect.
func NewResolver(override string, detectors ...Detector) *Resolver {
	r := &Resolver{
		override:  theme.Mode(override),
		detectors: detectors,
	}
	r.current = r.resolveLocked()
	return r
}

// Current returns the last resolved scheme.
func (r *Resolver) Current() theme.Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Mode
}

// Scheme returns the last resolved scheme with its source.
func (r *Resolver) Scheme() Scheme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// RegisterDetector adds a detector. It is consulted on the next Refresh.
func (r *Resolver) RegisterDetector(d Detector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detectors = append(r.detectors, d)
}

// Refresh re-runs detection and notifies callbacks if the mode changed.
func (r *Resolver) Refresh() Scheme {
	r.mu.Lock()
	next := r.resolveLocked()
	changed := next.Mode != r.current.Mode
	r.current = next

	var callbacks []*callbackWrapper
	if changed {
		callbacks = make([]*callbackWrapper, len(r.callbacks))
		copy(callbacks, r.callbacks)
	}
	r.mu.Unlock()

	if changed {
		log.Info().Str("mode", string(next.Mode)).Str("source", next.Source).Msg("Platform color scheme changed")
		for _, cb := range callbacks {
			cb.fn(next.Mode)
		}
	}
	return next
}

// OnChange registers a callback for scheme changes and returns its unregister func.
func (r *Resolver) OnChange(callback func(theme.Mode)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	wrapper := &callbackWrapper{fn: callback}
	r.callbacks = append(r.callbacks, wrapper)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, cb := range r.callbacks {
			if cb == wrapper {
				r.callbacks = append(r.callbacks[:i], r.callbacks[i+1:]...)
				return
			}
		}
	}
}

// resolveLocked runs the override and detector chain. Caller must hold r.mu.
func (r *Resolver) resolveLocked() Scheme {
	if r.override.Valid() {
		return Scheme{Mode: r.override, Source: SourceConfig}
	}

	sorted := make([]Detector, len(r.detectors))
	copy(sorted, r.detectors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})

	for _, d := range sorted {
		if !d.Available() {
			continue
		}
		if dark, ok := d.Detect(); ok {
			return Scheme{Mode: theme.ModeFromDark(dark), Source: d.Name()}
		}
	}

	return Scheme{Mode: theme.ModeLight, Source: SourceFallback}
}

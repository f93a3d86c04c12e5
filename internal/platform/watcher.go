package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher refreshes a Resolver on a poll interval and whenever the scheme
// file changes.
type Watcher struct {
	resolver   *Resolver
	schemeFile string
	interval   time.Duration
}

// NewWatcher creates a watcher. schemeFile may be empty to only poll.
func NewWatcher(resolver *Resolver, schemeFile string, interval time.Duration) *Watcher {
	return &Watcher{
		resolver:   resolver,
		schemeFile: schemeFile,
		interval:   interval,
	}
}

// Run blocks until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	var events <-chan fsnotify.Event
	var errs <-chan error

	if w.schemeFile != "" {
		fsw, err := w.watchSchemeDir()
		if err != nil {
			log.Warn().Err(err).Str("file", w.schemeFile).Msg("Scheme file watch unavailable, polling only")
		} else {
			defer func() { _ = fsw.Close() }()
			events = fsw.Events
			errs = fsw.Errors
		}
	}

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			w.resolver.Refresh()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.schemeFile) {
				continue
			}
			log.Debug().Str("op", ev.Op.String()).Str("file", ev.Name).Msg("Scheme file change detected")
			w.resolver.Refresh()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Warn().Err(err).Msg("Scheme file watcher error")
		}
	}
}

// watchSchemeDir watches the directory so the file can be created or replaced.
func (w *Watcher) watchSchemeDir() (*fsnotify.Watcher, error) {
	dir := filepath.Dir(w.schemeFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create scheme dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return fsw, nil
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/echochat/internal/config"
	"github.com/xonecas/echochat/internal/constants"
	"github.com/xonecas/echochat/internal/platform"
	"github.com/xonecas/echochat/internal/store"
	"github.com/xonecas/echochat/internal/theme"
)

// KV is the preference storage the commands need: the theme store's
// contract plus Delete for "theme reset".
type KV interface {
	theme.KV
	Delete(ctx context.Context, key string) error
}

// App holds everything a command runs against.
type App struct {
	Config   *config.Config
	KV       KV
	Resolver *platform.Resolver
	Themes   *theme.Store

	// Persistent is false when the database could not be opened and
	// preferences only live in memory.
	Persistent bool

	closeKV func() error
}

// NewApp loads configuration, opens storage and builds the theme store.
// Logging must already be configured.
func NewApp(flags *Flags) (*App, error) {
	cfgPath := config.ResolvePath(flags.ConfigPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Debug().Str("config", cfgPath).Msg("Configuration loaded")

	app := &App{Config: cfg}
	app.openKV()

	app.Resolver = platform.NewResolver(
		cfg.Appearance.ColorScheme,
		platform.DefaultDetectors(cfg.Appearance.SchemeFile)...,
	)
	scheme := app.Resolver.Scheme()
	log.Info().
		Str("platform", scheme.Mode.String()).
		Str("source", scheme.Source).
		Msg("Platform color scheme resolved")

	app.Themes = theme.NewStore(app.KV, app.Resolver)
	return app, nil
}

// openKV opens the SQLite store, falling back to memory.
func (a *App) openKV() {
	db, err := store.Open(a.Config.Storage.Path)
	if err != nil {
		log.Warn().
			Err(err).
			Str("path", a.Config.Storage.Path).
			Msg("Failed to open database, preferences will not persist")
		a.KV = store.NewMemory()
		a.closeKV = func() error { return nil }
		return
	}
	a.KV = db
	a.Persistent = true
	a.closeKV = db.Close
}

// LoadTheme starts loading the stored preference and waits for it, up to
// timeout. On timeout the store keeps its default and applies the stored
// value whenever it arrives.
func (a *App) LoadTheme(ctx context.Context, timeout time.Duration) {
	a.Themes.Initialize(ctx)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-a.Themes.Ready():
		state := a.Themes.State()
		log.Debug().
			Str("preference", state.Preference.String()).
			Str("effective", state.Effective.String()).
			Msg("Theme preference loaded")
	case <-timer.C:
		log.Warn().Dur("timeout", timeout).Msg("Theme preference load timed out, starting with defaults")
	case <-ctx.Done():
	}
}

// Close flushes the theme store and closes storage.
func (a *App) Close() error {
	if a.Themes != nil {
		_ = a.Themes.Close()
	}
	if a.closeKV != nil {
		return a.closeKV()
	}
	return nil
}

// Watcher returns the platform watcher for this app's configuration.
func (a *App) Watcher() *platform.Watcher {
	return platform.NewWatcher(a.Resolver, a.Config.Appearance.SchemeFile, a.Config.Appearance.PollInterval)
}

// loadTimeout is a var so tests can shorten it.
var loadTimeout = constants.LoadTimeout

// Package cli provides the echochat commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/xonecas/echochat/internal/features"
	"github.com/xonecas/echochat/internal/tui"
	"golang.org/x/sync/errgroup"
)

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	flags := &Flags{}

	root := &cobra.Command{
		Use:   "echochat",
		Short: "A chat screen with an echo bot and a voice assistant",
		Long: `echochat - a small chat client that talks to itself.

Messages are echoed back by a scripted bot. A scripted voice assistant can be
started with /voice. The light/dark theme follows your preference, or the
platform color scheme when the preference is "system".

Run without arguments for the terminal UI, or with --plain for line mode.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), flags, version)
		},
	}
	flags.bind(root)

	root.AddCommand(
		newThemeCmd(flags),
		newVersionCmd(version),
	)
	return root
}

// Execute runs the root command until it returns or the process is signaled.
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd(version).ExecuteContext(ctx)
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			PrintVersion(cmd.OutOrStdout(), version)
		},
	}
}

// runChat starts the interactive session: the platform watcher and either
// the TUI or the line-mode loop, under one errgroup.
func runChat(ctx context.Context, flags *Flags, version string) error {
	if flags.Plain {
		features.SetupConsoleLogging(flags.Debug)
	} else if err := features.SetupFileLogging(flags.Debug); err != nil {
		return err
	}

	app, err := NewApp(flags)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close storage")
		}
	}()

	log.Info().
		Str("version", version).
		Str("db", app.Config.Storage.Path).
		Bool("plain", flags.Plain).
		Msg("Starting echochat")

	app.LoadTheme(ctx, loadTimeout)

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		return app.Watcher().Run(runCtx)
	})

	g.Go(func() error {
		// The session ending stops the watcher.
		defer cancel()
		if flags.Plain {
			return runPlain(runCtx, app, os.Stdin, os.Stdout)
		}
		return tui.Start(runCtx, app.Config, app.Themes)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("session failed: %w", err)
	}
	return nil
}

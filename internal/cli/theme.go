package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/xonecas/echochat/internal/constants"
	"github.com/xonecas/echochat/internal/features"
	"github.com/xonecas/echochat/internal/store"
	"github.com/xonecas/echochat/internal/styles"
	"github.com/xonecas/echochat/internal/theme"
)

func newThemeCmd(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the theme preference and what it resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *App) error {
				app.LoadTheme(cmd.Context(), loadTimeout)
				printThemeState(cmd.Context(), cmd.OutOrStdout(), app)
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:       "set <light|dark|system>",
		Short:     "Save a theme preference",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"light", "dark", "system"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := theme.ParsePreference(args[0])
			if err != nil {
				return err
			}
			return withApp(flags, func(app *App) error {
				return setTheme(cmd.Context(), cmd.OutOrStdout(), app, p)
			})
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget the saved preference and follow the platform again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *App) error {
				if err := app.KV.Delete(cmd.Context(), constants.ThemePreferenceKey); err != nil {
					return fmt.Errorf("failed to reset theme preference: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render("Theme preference reset to system"))
				return nil
			})
		},
	}

	cmd.AddCommand(set, reset)
	return cmd
}

// withApp runs fn against a freshly built App and closes it afterwards.
func withApp(flags *Flags, fn func(*App) error) error {
	features.SetupConsoleLogging(flags.Debug)

	app, err := NewApp(flags)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(app)
}

// setTheme applies p, flushes the store and reads the value back. Write
// failures are only logged by the store, so a mismatch is the signal.
func setTheme(ctx context.Context, out io.Writer, app *App, p theme.Preference) error {
	if err := app.Themes.SetTheme(p); err != nil {
		return err
	}
	state := app.Themes.State()
	_ = app.Themes.Close()

	stored, ok, err := app.KV.Get(ctx, constants.ThemePreferenceKey)
	if err != nil {
		return fmt.Errorf("failed to verify theme preference: %w", err)
	}
	if !ok || stored != p.String() {
		return fmt.Errorf("theme preference %q was not saved", p)
	}

	fmt.Fprintln(out, styles.Success.Render(fmt.Sprintf("Theme set to %s", p))+
		styles.Muted.Render(fmt.Sprintf(" (effective: %s)", state.Effective)))
	if !app.Persistent {
		fmt.Fprintln(out, styles.Muted.Render("Storage unavailable: the preference lasts for this process only."))
	}
	return nil
}

// entryLister is implemented by the SQLite store.
type entryLister interface {
	List(ctx context.Context) ([]store.Entry, error)
}

func printThemeState(ctx context.Context, out io.Writer, app *App) {
	state := app.Themes.State()
	scheme := app.Resolver.Scheme()

	fmt.Fprintln(out, styles.BrandBold.Render("Preference:")+" "+state.Preference.String())
	fmt.Fprintln(out, styles.BrandBold.Render("Platform:  ")+" "+scheme.Mode.String()+styles.Muted.Render(" ("+scheme.Source+")"))
	fmt.Fprintln(out, styles.BrandBold.Render("Effective: ")+" "+state.Effective.String())

	saved := styles.Muted.Render("nothing saved")
	if lister, ok := app.KV.(entryLister); ok {
		entries, err := lister.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to list saved preferences")
		}
		for _, e := range entries {
			if e.Key == constants.ThemePreferenceKey {
				saved = e.Value + styles.Muted.Render(" (updated "+e.UpdatedAt.Local().Format("2006-01-02 15:04")+")")
			}
		}
	}
	fmt.Fprintln(out, styles.BrandBold.Render("Saved:     ")+" "+saved)
}

package cli

import (
	"github.com/spf13/cobra"
)

// Flags holds the command-line flags.
type Flags struct {
	ConfigPath string
	Debug      bool
	Plain      bool
}

// bind registers the flags on the root command. config and debug are
// inherited by every subcommand.
func (f *Flags) bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", "", "Path to config file (default: ./config.toml or ~/.config/echochat/config.toml)")
	cmd.PersistentFlags().BoolVarP(&f.Debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().BoolVarP(&f.Plain, "plain", "p", false, "Use line mode instead of the terminal UI")
}

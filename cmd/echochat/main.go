package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/xonecas/echochat/internal/cli"
	"github.com/xonecas/echochat/internal/styles"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := cli.Execute(Version); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

package cli

import (
	"fmt"
	"io"

	"github.com/xonecas/echochat/internal/styles"
	"github.com/xonecas/echochat/internal/theme"
)

// PrintVersion displays the version information.
func PrintVersion(out io.Writer, version string) {
	fmt.Fprintf(out, "echochat %s\n", version)
}

// printWelcome displays the line-mode banner.
func printWelcome(out io.Writer, state theme.State, persistent bool) {
	fmt.Fprintln(out, styles.Brand.Render("╔══════════════════════════════════════╗"))
	fmt.Fprintln(out, styles.Brand.Render("║")+"     "+styles.BrandBold.Render("echochat")+" - say it, hear it back    "+styles.Brand.Render("║"))
	fmt.Fprintln(out, styles.Brand.Render("╚══════════════════════════════════════╝"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.Muted.Render("Theme: "+themeLabel(state)))
	if !persistent {
		fmt.Fprintln(out, styles.Muted.Render("Storage unavailable: preferences last for this session only"))
	}
	fmt.Fprintln(out, styles.Muted.Render("Type /help for commands"))
	fmt.Fprintln(out)
}

// printCommands lists the in-session commands.
func printCommands(out io.Writer) {
	fmt.Fprintln(out, styles.BrandBold.Render("COMMANDS:"))
	fmt.Fprintln(out, "  "+styles.Secondary.Render("/theme [light|dark|system]")+"  Set the theme, or cycle without an argument")
	fmt.Fprintln(out, "  "+styles.Secondary.Render("/settings")+"                   Show the current theme settings")
	fmt.Fprintln(out, "  "+styles.Secondary.Render("/voice")+"                      Talk to the voice assistant")
	fmt.Fprintln(out, "  "+styles.Secondary.Render("/clear")+"                      Clear the conversation")
	fmt.Fprintln(out, "  "+styles.Secondary.Render("exit, quit")+"                  Exit the session")
	fmt.Fprintln(out)
}

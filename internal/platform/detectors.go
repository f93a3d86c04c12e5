package platform

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	priorityFile      = 60
	priorityTerminal  = 30
	priorityColorFGBG = 25
	priorityGTKTheme  = 20
	priorityGsettings = 10
)

// DefaultDetectors returns the detector chain used by the application.
func DefaultDetectors(schemeFile string) []Detector {
	return []Detector{
		NewFileDetector(schemeFile),
		NewTerminalDetector(),
		NewColorFGBGDetector(),
		NewGTKThemeDetector(),
		NewGsettingsDetector(),
	}
}

// FileDetector reads "light" or "dark" from a file. Editing the file is how
// users and scripts switch the scheme while the app is running.
type FileDetector struct {
	path string
}

// NewFileDetector creates a detector for the given scheme file.
func NewFileDetector(path string) *FileDetector {
	return &FileDetector{path: path}
}

func (*FileDetector) Name() string  { return "file" }
func (*FileDetector) Priority() int { return priorityFile }

// Path returns the watched file.
func (d *FileDetector) Path() string { return d.path }

func (d *FileDetector) Available() bool {
	if d.path == "" {
		return false
	}
	_, err := os.Stat(d.path)
	return err == nil
}

func (d *FileDetector) Detect() (prefersDark, ok bool) {
	//nolint:gosec // G304: path comes from config
	data, err := os.ReadFile(d.path)
	if err != nil {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(string(data))) {
	case "dark", "prefer-dark":
		return true, true
	case "light", "prefer-light":
		return false, true
	}
	return false, false
}

// TerminalDetector asks the terminal for its background color.
// The query runs once; the answer is cached because it reads from the TTY.
type TerminalDetector struct {
	once sync.Once
	dark bool
	ok   bool
}

// NewTerminalDetector creates a terminal background detector.
func NewTerminalDetector() *TerminalDetector {
	return &TerminalDetector{}
}

func (*TerminalDetector) Name() string  { return "terminal" }
func (*TerminalDetector) Priority() int { return priorityTerminal }

func (*TerminalDetector) Available() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && termenv.ColorProfile() != termenv.Ascii
}

func (d *TerminalDetector) Detect() (prefersDark, ok bool) {
	d.once.Do(func() {
		d.dark = termenv.HasDarkBackground()
		d.ok = true
	})
	return d.dark, d.ok
}

// ColorFGBGDetector reads the COLORFGBG variable set by rxvt, Konsole and others.
type ColorFGBGDetector struct {
	getenv func(string) string
}

// NewColorFGBGDetector creates a COLORFGBG detector.
func NewColorFGBGDetector() *ColorFGBGDetector {
	return &ColorFGBGDetector{getenv: os.Getenv}
}

func (*ColorFGBGDetector) Name() string  { return "COLORFGBG" }
func (*ColorFGBGDetector) Priority() int { return priorityColorFGBG }

func (d *ColorFGBGDetector) Available() bool {
	return d.getenv("COLORFGBG") != ""
}

// Detect parses "fg;bg" or "fg;default;bg"; ANSI backgrounds 0-6 and 8 are dark.
func (d *ColorFGBGDetector) Detect() (prefersDark, ok bool) {
	parts := strings.Split(d.getenv("COLORFGBG"), ";")
	if len(parts) < 2 {
		return false, false
	}
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || bg < 0 || bg > 15 {
		return false, false
	}
	return bg <= 6 || bg == 8, true
}

// GTKThemeDetector detects dark mode from the GTK_THEME variable.
type GTKThemeDetector struct {
	getenv func(string) string
}

// NewGTKThemeDetector creates a GTK_THEME detector.
func NewGTKThemeDetector() *GTKThemeDetector {
	return &GTKThemeDetector{getenv: os.Getenv}
}

func (*GTKThemeDetector) Name() string  { return "GTK_THEME" }
func (*GTKThemeDetector) Priority() int { return priorityGTKTheme }

func (d *GTKThemeDetector) Available() bool {
	return d.getenv("GTK_THEME") != ""
}

func (d *GTKThemeDetector) Detect() (prefersDark, ok bool) {
	gtkTheme := d.getenv("GTK_THEME")
	if gtkTheme == "" {
		return false, false
	}
	return strings.Contains(strings.ToLower(gtkTheme), "dark"), true
}

// GsettingsDetector queries the GNOME color-scheme setting.
type GsettingsDetector struct{}

// NewGsettingsDetector creates a gsettings detector.
func NewGsettingsDetector() *GsettingsDetector {
	return &GsettingsDetector{}
}

func (*GsettingsDetector) Name() string  { return "gsettings" }
func (*GsettingsDetector) Priority() int { return priorityGsettings }

func (*GsettingsDetector) Available() bool {
	_, err := exec.LookPath("gsettings")
	return err == nil
}

func (*GsettingsDetector) Detect() (prefersDark, ok bool) {
	output, err := exec.Command("gsettings", "get", "org.gnome.desktop.interface", "color-scheme").Output()
	if err != nil {
		return false, false
	}
	return parseGsettings(string(output))
}

// parseGsettings handles output like "'prefer-dark'\n". "default" is undecided.
func parseGsettings(output string) (prefersDark, ok bool) {
	switch strings.Trim(strings.TrimSpace(output), `'"`) {
	case "prefer-dark":
		return true, true
	case "prefer-light":
		return false, true
	}
	return false, false
}

// Package theme resolves the user's light/dark/system preference against the
// platform color scheme and persists it.
package theme

import (
	"errors"
	"fmt"
	"strings"
)

// Preference is the user-selected theme setting.
type Preference string

const (
	PreferenceLight  Preference = "light"
	PreferenceDark   Preference = "dark"
	PreferenceSystem Preference = "system"
)

// Mode is a concrete color scheme: the effective theme, or what the platform reports.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ErrInvalidPreference is returned for values outside light/dark/system.
var ErrInvalidPreference = errors.New("invalid theme preference")

// Preferences lists every valid preference in cycle order.
var Preferences = []Preference{PreferenceSystem, PreferenceLight, PreferenceDark}

// Valid reports whether p is one of the known preferences.
func (p Preference) Valid() bool {
	switch p {
	case PreferenceLight, PreferenceDark, PreferenceSystem:
		return true
	}
	return false
}

// Next returns the preference after p in the system -> light -> dark cycle.
func (p Preference) Next() Preference {
	switch p {
	case PreferenceSystem:
		return PreferenceLight
	case PreferenceLight:
		return PreferenceDark
	default:
		return PreferenceSystem
	}
}

func (p Preference) String() string { return string(p) }

// ParsePreference parses the stored or user-typed form of a preference.
func ParsePreference(s string) (Preference, error) {
	p := Preference(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPreference, s)
	}
	return p, nil
}

// Valid reports whether m is light or dark.
func (m Mode) Valid() bool {
	return m == ModeLight || m == ModeDark
}

// IsDark reports whether m is the dark scheme.
func (m Mode) IsDark() bool { return m == ModeDark }

func (m Mode) String() string { return string(m) }

// ModeFromDark converts a prefers-dark flag into a Mode.
func ModeFromDark(dark bool) Mode {
	if dark {
		return ModeDark
	}
	return ModeLight
}

// Resolve returns the effective theme for a preference on a platform.
// An unknown platform value resolves to light.
func Resolve(p Preference, platform Mode) Mode {
	switch p {
	case PreferenceLight:
		return ModeLight
	case PreferenceDark:
		return ModeDark
	}
	if platform.Valid() {
		return platform
	}
	return ModeLight
}

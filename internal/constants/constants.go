// Package constants provides application-wide constants.
package constants

import "time"

const (
	// AppName is the application name.
	AppName = "echochat"

	// AppDataDir is the directory name for application data.
	AppDataDir = ".config/echochat"

	// ThemePreferenceKey is the key the theme preference is persisted under.
	ThemePreferenceKey = "user-theme-preference"
)

// Timing constants
const (
	// DefaultReplyDelay is how long the echo bot "types" before replying.
	DefaultReplyDelay = 1 * time.Second

	// DefaultListenDuration is how long the voice overlay pretends to listen.
	DefaultListenDuration = 3 * time.Second

	// DefaultResponseDelay is the pause between transcript and voice response.
	DefaultResponseDelay = 1500 * time.Millisecond

	// DefaultPlatformPoll is the interval between platform color scheme checks.
	DefaultPlatformPoll = 5 * time.Second

	// LoadTimeout bounds how long startup waits for the stored theme preference.
	LoadTimeout = 2 * time.Second

	// PersistTimeout bounds a single preference read or write.
	PersistTimeout = 2 * time.Second
)

// DefaultMaxMessages caps the in-memory conversation.
const DefaultMaxMessages = 100

// Package config loads the echochat TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/xonecas/echochat/internal/constants"
)

// Config is the top-level configuration.
type Config struct {
	Appearance AppearanceConfig `toml:"appearance"`
	Chat       ChatConfig       `toml:"chat"`
	Voice      VoiceConfig      `toml:"voice"`
	Storage    StorageConfig    `toml:"storage"`
}

// AppearanceConfig controls platform color scheme detection.
type AppearanceConfig struct {
	// ColorScheme overrides platform detection: "light", "dark" or "" (detect).
	ColorScheme string `toml:"color_scheme"`
	// SchemeFile is a file containing "light" or "dark", watched for changes.
	SchemeFile   string        `toml:"scheme_file"`
	PollInterval time.Duration `toml:"poll_interval"`
}

// ChatConfig controls the echo bot.
type ChatConfig struct {
	ReplyDelay  time.Duration `toml:"reply_delay"`
	ReplyPrefix string        `toml:"reply_prefix"`
	MaxMessages int           `toml:"max_messages"`
}

// VoiceConfig controls the scripted voice assistant.
type VoiceConfig struct {
	ListenDuration time.Duration `toml:"listen_duration"`
	ResponseDelay  time.Duration `toml:"response_delay"`
	Transcripts    []string      `toml:"transcripts"`
	Responses      []string      `toml:"responses"`
}

// StorageConfig controls where preferences are persisted.
type StorageConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Appearance: AppearanceConfig{
			PollInterval: constants.DefaultPlatformPoll,
		},
		Chat: ChatConfig{
			ReplyDelay:  constants.DefaultReplyDelay,
			ReplyPrefix: "Echo: ",
			MaxMessages: constants.DefaultMaxMessages,
		},
		Voice: VoiceConfig{
			ListenDuration: constants.DefaultListenDuration,
			ResponseDelay:  constants.DefaultResponseDelay,
			Transcripts: []string{
				"What's the weather like today?",
				"Set a timer for ten minutes.",
				"Tell me something interesting.",
			},
			Responses: []string{
				"It looks sunny with a light breeze.",
				"Timer set for ten minutes.",
				"Octopuses have three hearts.",
			},
		},
	}
}

// Load reads the config file at path on top of the defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.finalize()
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, cfg.finalize()
		}
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finalize fills derived defaults and validates values.
func (c *Config) finalize() error {
	c.Appearance.ColorScheme = strings.ToLower(strings.TrimSpace(c.Appearance.ColorScheme))
	switch c.Appearance.ColorScheme {
	case "", "light", "dark":
	default:
		return fmt.Errorf("appearance.color_scheme must be light, dark or empty, got %q", c.Appearance.ColorScheme)
	}

	if c.Appearance.PollInterval <= 0 {
		c.Appearance.PollInterval = constants.DefaultPlatformPoll
	}
	if c.Chat.ReplyDelay < 0 {
		return fmt.Errorf("chat.reply_delay must not be negative")
	}
	if c.Chat.MaxMessages <= 0 {
		c.Chat.MaxMessages = constants.DefaultMaxMessages
	}
	if c.Voice.ListenDuration < 0 || c.Voice.ResponseDelay < 0 {
		return fmt.Errorf("voice durations must not be negative")
	}
	if len(c.Voice.Transcripts) == 0 || len(c.Voice.Responses) == 0 {
		def := Default()
		if len(c.Voice.Transcripts) == 0 {
			c.Voice.Transcripts = def.Voice.Transcripts
		}
		if len(c.Voice.Responses) == 0 {
			c.Voice.Responses = def.Voice.Responses
		}
	}

	dataDir, err := DataDir()
	if err != nil {
		return err
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(dataDir, constants.AppName+".db")
	}
	if c.Appearance.SchemeFile == "" {
		c.Appearance.SchemeFile = filepath.Join(dataDir, "color-scheme")
	}
	return nil
}

// DataDir returns the application data directory (~/.config/echochat).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, constants.AppDataDir), nil
}

// EnsureDataDir creates the data directory if needed and returns its path.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// ResolvePath picks the config file: explicit path, ./config.toml, then the data dir.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("config.toml"); err == nil {
		return "config.toml"
	}
	dataDir, err := DataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dataDir, "config.toml")
}

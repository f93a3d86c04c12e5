package features

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/echochat/internal/config"
	"github.com/xonecas/echochat/internal/constants"
)

// SetupFileLogging configures zerolog to write to a file.
// This is used by TUI mode to avoid collision with the UI.
func SetupFileLogging(debug bool) error {
	dataDir, err := config.EnsureDataDir()
	if err != nil {
		return fmt.Errorf("get data directory: %w", err)
	}

	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	logFile := filepath.Join(logDir, constants.AppName+".log")
	//nolint:gosec // G304: Path built from the data directory
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	// Always JSON to the log file
	writers := []io.Writer{file}

	// In debug mode, also write human-readable logs to a separate debug file
	if debug {
		debugFile := filepath.Join(logDir, constants.AppName+"-debug.log")
		//nolint:gosec // G304: Debug log file path is constructed from the data directory
		debugFileWriter, err := os.OpenFile(debugFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open debug log file: %w", err)
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: debugFileWriter, TimeFormat: time.RFC3339})
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	setLevel(debug)

	log.Info().
		Str("log_file", logFile).
		Bool("debug", debug).
		Msg("File logging initialized")

	return nil
}

// SetupConsoleLogging logs human-readable output to stderr.
// Without debug only warnings and above are shown, so command output stays clean.
func SetupConsoleLogging(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}

func setLevel(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thenoetrevino/tramo/internal/config"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger

// Init initializes the logging system, writing logs to ~/.tramo/logs/tramo.log
// unless cfg names another directory. Uses text format for human readability.
func Init(cfg config.LoggingConfig) error {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	logDir := cfg.Dir
	if logDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		logDir = filepath.Join(homeDir, ".tramo", "logs")
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	// Open log file in append mode
	logPath := filepath.Join(logDir, "tramo.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	Logger = New(file, level)
	slog.SetDefault(Logger)

	// Redirect standard log package output to the same file
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags)

	return nil
}

// New returns a text logger writing to w at the given level
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

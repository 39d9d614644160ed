package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dikkadev/prettyslog"
)

// parseLogLevel converts a level name to a slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s (must be error, warn, info, or debug)", level)
	}
}

// setupLogger installs a prettyslog handler as the default logger.
func setupLogger(level slog.Level) *slog.Logger {
	logger := slog.New(prettyslog.NewPrettyslogHandler("lcdmenu",
		prettyslog.WithLevel(level),
	))
	slog.SetDefault(logger)
	return logger
}

// Package logx configures the process-wide structured logger.
package logx

import (
	"log/slog"
	"os"
	"strings"
)

// New creates a JSON slog.Logger at the given level. Supported levels:
// "debug", "info", "warn", "error". Unrecognised strings fall back to
// "info".
func New(level string) *slog.Logger {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "info":
		lv = slog.LevelInfo
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lv})
	return slog.New(handler)
}

// SetDefault installs the logger as the default slog logger.
func SetDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

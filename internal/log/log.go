// Package log wires slog up for the kestrel commands: one process-wide
// logger, text output during development, JSON when running as a service.
package log

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// EnvMode selects the output format: "production" switches the process
// to JSON logs.
const EnvMode = "KESTREL_ENV"

var (
	logger *slog.Logger
	once   sync.Once
)

// Init installs the process logger at the given level ("debug", "info",
// "warn", "error"). Later calls are no-ops; packages that log before
// Init get the "info" default through L.
func Init(level string) {
	once.Do(func() {
		logger = slog.New(newHandler(parseLevel(level), os.Stdout))
		slog.SetDefault(logger)
	})
}

// parseLevel maps a config string to a slog level, defaulting to info.
func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newHandler builds the handler for the current run mode.
func newHandler(level slog.Level, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if os.Getenv(EnvMode) == "production" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// L returns the process logger.
func L() *slog.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// Component returns a logger tagged with a component name.
// Packages use this to scope their log output.
func Component(name string) *slog.Logger {
	return L().With("component", name)
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}

// Package logging provides structured logging for gauge using log/slog.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

// Level represents log level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Config controls logging behavior.
type Config struct {
	Level      Level
	JSONFormat bool
	Output     io.Writer
}

// DefaultConfig returns the default logging configuration: warnings and
// above, text format, to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Output: os.Stderr,
	}
}

// Init replaces the process logger. It is safe to call at any time.
func Init(cfg Config) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	logger.Store(slog.New(handler))
}

func parseLevel(l Level) slog.Level {
	switch ParseLevel(string(l)) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ParseLevel parses a level string. Unknown values map to LevelWarn.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

// Valid reports whether s names a known level.
func Valid(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func get() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	Init(DefaultConfig())
	return logger.Load()
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { get().Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { get().Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { get().Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { get().Error(msg, args...) }

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger { return get().With(args...) }

// SetLogger sets a custom logger (useful for testing).
func SetLogger(l *slog.Logger) { logger.Store(l) }

// GetLogger returns the current logger.
func GetLogger() *slog.Logger { return get() }

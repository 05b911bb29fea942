package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Init installs a text logger writing to output. Until Init is called every
// log line is discarded, because stdout belongs to the TUI.
func Init(output io.Writer, level slog.Level) {
	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))
	defaultLogger.Store(logger)
	slog.SetDefault(logger)
}

// OpenFile opens path for appending, creating its directory
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// ParseLevel parses "debug", "info", "warn" or "error"
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func log(level slog.Level, subsystem string, err error, msg string, args []any) {
	attrs := make([]any, 0, len(args)+4)
	attrs = append(attrs, slog.String("subsystem", subsystem))
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	attrs = append(attrs, args...)
	defaultLogger.Load().Log(context.Background(), level, msg, attrs...)
}

// Debug logs a debug message with slog-style key/value args
func Debug(subsystem, msg string, args ...any) {
	log(slog.LevelDebug, subsystem, nil, msg, args)
}

// Info logs an informational message
func Info(subsystem, msg string, args ...any) {
	log(slog.LevelInfo, subsystem, nil, msg, args)
}

// Warn logs a warning
func Warn(subsystem, msg string, args ...any) {
	log(slog.LevelWarn, subsystem, nil, msg, args)
}

// Error logs an error
func Error(subsystem string, err error, msg string, args ...any) {
	log(slog.LevelError, subsystem, err, msg, args)
}

// Sink receives human-readable diagnostic lines, e.g. the debug pane
type Sink interface {
	Append(msg string)
}

// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// RunIDKey is the context key for the id of a parse run.
	RunIDKey ContextKey = "run_id"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	InitLogger(LevelInfo, FormatJSON)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// ParseLevel maps a level name (debug, info, warn, error) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// ParseFormat maps a format name (json, text) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	}
	return FormatJSON, fmt.Errorf("unknown log format %q", s)
}

// InitLogger initializes the global logger with the specified level and
// format, writing to stderr so stdout stays free for command output.
func InitLogger(level Level, format Format) {
	InitLoggerTo(os.Stderr, level, format)
}

// InitLoggerTo is InitLogger with an explicit destination.
func InitLoggerTo(w io.Writer, level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// LoggerFromContext returns a logger with context values attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// DebugContext logs a debug message with context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Debug(msg, args...)
}

// InfoContext logs an info message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Info(msg, args...)
}

// WarnContext logs a warning message with context.
func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Warn(msg, args...)
}

// ErrorContext logs an error message with context.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Error(msg, args...)
}

// DocumentParsed logs a document that was parsed and stored.
func DocumentParsed(ctx context.Context, path, format string, records, dropped int, duration time.Duration, args ...any) {
	allArgs := []any{
		"path", path,
		"format", format,
		"records", records,
		"dropped", dropped,
		"duration_ms", duration.Milliseconds(),
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Info("document_parsed", allArgs...)
}

// DocumentSkipped logs a document that was not parsed.
func DocumentSkipped(ctx context.Context, path, reason string, args ...any) {
	allArgs := []any{
		"path", path,
		"reason", reason,
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Info("document_skipped", allArgs...)
}

// DocumentFailed logs a document that yielded no records because of an error.
func DocumentFailed(ctx context.Context, path string, err error, args ...any) {
	allArgs := []any{
		"path", path,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Error("document_failed", allArgs...)
}

// RunFinished logs the totals of a parse run.
func RunFinished(ctx context.Context, documents, failed, records int, duration time.Duration, args ...any) {
	allArgs := []any{
		"documents", documents,
		"failed", failed,
		"records", records,
		"duration_ms", duration.Milliseconds(),
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Info("run_finished", allArgs...)
}

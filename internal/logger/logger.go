// Package logger provides levelled logging for the Lingua CLI.
//
// Messages go through a log/slog handler (text or JSON) writing to stderr.
// Warnings and errors are always shown; info and debug messages appear when
// the configured level allows them or verbose mode is enabled via --verbose.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Format names accepted by Configure.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	mu      sync.RWMutex
	verbose bool
	level   = slog.LevelWarn
	logFmt  = FormatText
	output  io.Writer = os.Stderr
	log     = newLogger()
)

// Configure sets the minimum level (debug, info, warn, error) and the output format.
// Unknown levels fall back to warn and unknown formats to text.
func Configure(lvl, fmtName string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(lvl)
	logFmt = FormatText
	if strings.EqualFold(fmtName, FormatJSON) {
		logFmt = FormatJSON
	}
	log = newLogger()
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// SetVerbose enables or disables verbose logging.
// Verbose mode lowers the effective level to debug.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	log = newLogger()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = newLogger()
}

// Slog returns the underlying structured logger for packages that log with attributes.
func Slog() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs a formatted debug message.
func Debug(format string, args ...any) {
	emit(slog.LevelDebug, format, args...)
}

// Info logs a formatted informational message.
func Info(format string, args ...any) {
	emit(slog.LevelInfo, format, args...)
}

// Warn logs a formatted warning.
func Warn(format string, args ...any) {
	emit(slog.LevelWarn, format, args...)
}

// Error logs a formatted error.
func Error(format string, args ...any) {
	emit(slog.LevelError, format, args...)
}

// Section logs a section header at debug level.
func Section(name string) {
	emit(slog.LevelDebug, "=== %s ===", name)
}

func emit(lvl slog.Level, format string, args ...any) {
	l := Slog()
	ctx := context.Background()
	if !l.Enabled(ctx, lvl) {
		return
	}
	l.Log(ctx, lvl, fmt.Sprintf(format, args...))
}

// newLogger builds the slog logger from the current settings (caller must hold lock).
func newLogger() *slog.Logger {
	effective := level
	if verbose && effective > slog.LevelDebug {
		effective = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: effective}
	var handler slog.Handler
	if logFmt == FormatJSON {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		opts.ReplaceAttr = dropTime
		handler = slog.NewTextHandler(output, opts)
	}
	return slog.New(handler)
}

// dropTime omits timestamps from text output to keep CLI logs short.
func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

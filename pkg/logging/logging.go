// Package logging configures structured logging with tint.
//
// Usage:
//
//	closeLog, err := logging.Setup(logging.Options{Level: "debug"})
//	defer closeLog()
//
// Logs go to stderr with colors, or to Options.File without colors when set.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options configures the default logger.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string

	// File, when set, receives all logs instead of stderr. It is appended to.
	File string
}

// Setup installs the default slog logger and returns a function that closes
// the log file, if any.
func Setup(opts Options) (func() error, error) {
	if opts.File == "" {
		SetupWithLevel(os.Stderr, ParseLevel(opts.Level), false)
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	SetupWithLevel(f, ParseLevel(opts.Level), true)
	return f.Close, nil
}

// SetupWithLevel configures logging to w at the given level.
func SetupWithLevel(w io.Writer, level slog.Level, noColor bool) {
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			AddSource:  level == slog.LevelDebug,
			NoColor:    noColor,
		}),
	))
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// Package logging configures structured logging: colored text with tint, or
// JSON for log collectors.
//
// Usage:
//
//	logging.Setup("text", slog.LevelInfo)  // colored output on stderr
//	logging.SetLevel(slog.LevelDebug)      // change the level at runtime
//
// The level can be parsed from config with ParseLevel
// (debug, info, warn, error).
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

// level is shared by every handler Setup installs so SetLevel takes effect
// without rebuilding the logger.
var level = new(slog.LevelVar)

// Setup installs the default logger writing to stderr in the given format
// ("text" or "json") at the given level.
func Setup(format string, lvl slog.Level) {
	level.Set(lvl)
	slog.SetDefault(slog.New(NewHandler(os.Stderr, format)))
}

// SetLevel changes the level of the logger installed by Setup.
func SetLevel(lvl slog.Level) {
	level.Set(lvl)
}

// Level returns the current level.
func Level() slog.Level {
	return level.Level()
}

// NewHandler builds a handler for format writing to w at the shared level.
// Unknown formats fall back to colored text.
func NewHandler(w io.Writer, format string) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel converts debug, info, warn or error (any case) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

package app

import (
	"io"
	"log/slog"
	"strings"
)

// parseLevel maps a -log-level value to a slog level. Unknown values log at info.
func parseLevel(levelStr string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(levelStr))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// newLogger creates an isolated slog.Logger writing to outW. It never touches
// the global default, so several apps can run side by side in tests. Debug
// logging adds source locations.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level := parseLevel(levelStr)
	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler).With("app", "flowcanvas")
}

package app

import (
	"io"
	"log/slog"
)

// newLogger builds the app's isolated logger; it never touches the global
// default. The level names accepted by config.Validate map directly onto
// slog's own parser, with info as the fallback for anything unexpected.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}

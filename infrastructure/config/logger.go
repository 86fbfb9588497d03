package config

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

func ParseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger builds the process logger. Format "json" writes JSON lines,
// "plain" uncoloured text, anything else coloured text.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	lvl := ParseLogLevel(level)
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.RFC3339,
		NoColor:    strings.EqualFold(format, "plain"),
	}))
}

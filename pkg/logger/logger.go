package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the process logger. It writes to stderr since stdout can carry
// FastCGI records when the gateway runs in pipe mode.
func New(lvl string, addSource bool, environment string) *slog.Logger {
	return NewWithWriter(os.Stderr, lvl, addSource, environment)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, lvl string, addSource bool, environment string) *slog.Logger {
	level := parseLevel(lvl)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	}
	var handler slog.Handler

	if strings.ToLower(environment) == "prod" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("environment", environment),
	)
}

func parseLevel(level string) slog.Level {

	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

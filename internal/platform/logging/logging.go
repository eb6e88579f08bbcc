package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

func New(env string) *slog.Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter builds the service logger on w: JSON at info level in
// production, text at debug level everywhere else.
func NewWithWriter(env string, w io.Writer) *slog.Logger {
	var handler slog.Handler

	switch strings.ToLower(env) {
	case "prod", "production":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: true,
		})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		})
	}

	return slog.New(handler).With("service", "go-storefront")
}

// Discard returns a logger that drops everything; handy in tests and CLIs.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config holds logging configuration.
// Embed this in the app config for env parsing with caarlos0/env.
type Config struct {
	Sentry SentryConfig `envPrefix:"SENTRY_"`
	Level  slog.Level   `env:"LOG_LEVEL" envDefault:"info"`
}

// New creates a JSON logger at info level with optional context extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	return newJSON(os.Stdout, slog.LevelInfo, extractors...)
}

// FromConfig creates a logger honoring the configured level and Sentry DSN.
func FromConfig(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	cfg.Sentry.level = cfg.Level
	return NewWithSentry(cfg.Sentry, extractors...)
}

// NewNope creates a logger that discards everything. Used as the default
// when no logger is configured and in tests.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newJSON(w io.Writer, level slog.Level, extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewLogHandlerDecorator(h, extractors...))
}

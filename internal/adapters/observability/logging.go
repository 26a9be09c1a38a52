package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger writing to stdout.
// env=dev (or development) uses a human-friendly console writer; level is a
// zerolog level name and falls back to info.
func NewLogger(env, level string) zerolog.Logger {
	return newLogger(os.Stdout, env, level)
}

func newLogger(w io.Writer, env, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if env == "dev" || env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "goldenkey").Logger()
}

// NewConsoleLogger writes human-readable lines to w; CLIs point it at stderr.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	return newLogger(w, "dev", level)
}

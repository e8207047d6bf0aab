// Package logging provides the zerolog based structured logger used by commands,
// the cleanup pass and the web server.
//
// Human readable console output is used when stderr is a terminal, JSON otherwise.
// The logger travels through context.Context:
//
//	ctx := logging.WithLogger(ctx, logging.Default())
//	logging.FromContext(ctx).Info().Str("table", "nhl_rosters").Msg("snapshot loaded")
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var defaultLogger = New(os.Stderr, "info", "")

type contextKey int

const loggerKey contextKey = iota

// New creates a logger writing to w. Format "json" forces JSON output, "console"
// forces the console writer and anything else auto-detects a terminal.
func New(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if useConsole(w, format) {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	logger := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	if lvl <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// Setup replaces the default logger.
func Setup(level, format string) {
	defaultLogger = New(os.Stderr, level, format)
}

// Default returns the process wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// WithLogger stores logger in ctx. A nil logger stores the default one.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithField returns a context whose logger carries an extra string field.
func WithField(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}

func useConsole(w io.Writer, format string) bool {
	switch format {
	case "json":
		return false
	case "console":
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

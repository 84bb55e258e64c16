package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zlog = zerolog.Nop()

// Init initializes the structured logger. Development gets a console
// writer, everything else JSON on stdout.
func Init(env string) {
	var w io.Writer

	if env == "development" || env == "dev" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	} else {
		w = os.Stdout
	}

	zlog = zerolog.New(w).With().
		Timestamp().
		Str("service", "sentry-bookmarks").
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
}

// Set replaces the global logger. Used by tests to capture output.
func Set(l zerolog.Logger) {
	zlog = l
}

// Get returns the global logger.
func Get() *zerolog.Logger {
	return &zlog
}

// WithRequestID returns a logger with a request_id field.
func WithRequestID(requestID string) zerolog.Logger {
	return zlog.With().Str("request_id", requestID).Logger()
}

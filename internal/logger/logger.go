// Package logger builds component-scoped zerolog loggers.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr with a component field. APP_ENV=dev
// switches to human-readable console output; FBURN_LOG_LEVEL sets the level
// (default info).
func New(component string) zerolog.Logger {
	return NewWithWriter(os.Stderr, component)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, component string) zerolog.Logger {
	if strings.EqualFold(os.Getenv("APP_ENV"), "dev") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(level()).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

func level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("FBURN_LOG_LEVEL")))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var setupOnce sync.Once

// Setup initializes the global logger. level is one of zerolog's level
// names ("debug", "info", ...); unknown names fall back to info. Safe to
// call more than once; only the first call takes effect.
func Setup(level string, out io.Writer) {
	setupOnce.Do(func() {
		if out == nil {
			out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		}

		parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil || parsed == zerolog.NoLevel {
			parsed = zerolog.InfoLevel
		}

		log.Logger = zerolog.New(out).Level(parsed).With().Timestamp().Logger()
	})
}

// Component returns a logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

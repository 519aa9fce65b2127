// Package obs configures structured logging.
package obs

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger configures a zerolog logger using the provided format and level.
// It also becomes the package-level logger used by collections setup.
func NewLogger(format, level string) zerolog.Logger {
	return newLogger(os.Stdout, format, level)
}

func newLogger(w io.Writer, format, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	out := w
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "console", "text":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	logger := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

package handlers

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger logs every /api request after it is handled. Client errors
// log at warn, server errors at error.
func RequestLogger() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		start := time.Now()
		err := e.Next()

		status := e.Status()
		level := zerolog.InfoLevel
		switch {
		case err != nil || status >= 500:
			level = zerolog.ErrorLevel
		case status >= 400:
			level = zerolog.WarnLevel
		}

		log.WithLevel(level).
			Err(err).
			Str("method", e.Request.Method).
			Str("path", e.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}

package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/formrules/pkg/logger"
)

// HealthCheckHandler answers liveness probes with "ALIVE" when no checks are
// given. With checks it answers "READY", or 503 "NOT_READY" as soon as one
// check fails.
func HealthCheckHandler(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(checks) == 0 {
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}
		_, _ = w.Write([]byte("READY"))
	}
}

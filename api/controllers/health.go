package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/fenstra/offers-backend/api/responses"
	"github.com/fenstra/offers-backend/pkg/logger"
)

// Pinger is anything that can confirm a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Live reports process liveness.
func Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Ready reports whether the datastore dependencies answer. A nil pinger is
// treated as an optional dependency and skipped.
func Ready(db Pinger, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok"}
		healthy := true

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				status["database"] = "unreachable"
				healthy = false
			} else {
				status["database"] = "ok"
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				status["redis"] = "unreachable"
				healthy = false
			} else {
				status["redis"] = "ok"
			}
		}

		if !healthy {
			status["status"] = "degraded"
			logg.Warn(r.Context(), "readiness check degraded")
			responses.WriteSuccess(w, http.StatusServiceUnavailable, status)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, status)
	}
}

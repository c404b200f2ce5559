package controllers

import (
	"net/http"

	"github.com/moodpath/moodpath-backend/api/responses"
	"github.com/moodpath/moodpath-backend/pkg/config"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
	"github.com/moodpath/moodpath-backend/pkg/logger"
	"github.com/moodpath/moodpath-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Moodpath-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the Redis dependency before reporting ready.
func HealthReady(cfg *config.Config, pinger redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Moodpath-Env", cfg.App.Env)
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

package controllers

import (
	"net/http"

	"github.com/moodpath/moodpath-backend/api/responses"
	"github.com/moodpath/moodpath-backend/internal/correlation"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
	"github.com/moodpath/moodpath-backend/pkg/logger"
)

// WeeklyCorrelation computes the current week's mood/activity and sleep
// statistics for the authenticated user and persists a snapshot.
func WeeklyCorrelation(svc correlation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "correlation service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.ComputeForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moodpath/moodpath-backend/api/middleware"
	"github.com/moodpath/moodpath-backend/api/responses"
	"github.com/moodpath/moodpath-backend/api/validators"
	"github.com/moodpath/moodpath-backend/internal/moodlogs"
	"github.com/moodpath/moodpath-backend/internal/prediction"
	"github.com/moodpath/moodpath-backend/pkg/db/models"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
	"github.com/moodpath/moodpath-backend/pkg/logger"
	"github.com/moodpath/moodpath-backend/pkg/pagination"
)

const insightsLookbackDays = 90

func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// CreateMoodLog records today's mood entry for the authenticated user.
func CreateMoodLog(svc moodlogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "mood log service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body moodlogs.CreateMoodLogRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ListMoodLogs returns the authenticated user's logs, newest first, with
// optional from/to day filters.
func ListMoodLogs(svc moodlogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "mood log service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fromDay, err := validators.ParseQueryDay(r, "from", time.Time{})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		toDay, err := validators.ParseQueryDay(r, "to", time.Time{})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from := ""
		if !fromDay.IsZero() {
			from = fromDay.Format("2006-01-02")
		}
		to := ""
		if !toDay.IsZero() {
			to = toDay.Format("2006-01-02")
		}

		page := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		resp, err := svc.List(r.Context(), userID, from, to, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

type moodLogRangeReader interface {
	ListRange(ctx context.Context, userID uuid.UUID, fromDay, toDay string) ([]models.MoodLog, error)
}

type moodPredictor interface {
	Predict(ctx context.Context, logs []models.MoodLog) (*prediction.Output, error)
}

// MoodInsights feeds the user's recent logs to the external prediction
// process and relays its output.
func MoodInsights(reader moodLogRangeReader, predictor moodPredictor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reader == nil || predictor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insights unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		from := now.AddDate(0, 0, -insightsLookbackDays).Format("2006-01-02")
		to := now.Format("2006-01-02")

		logs, err := reader.ListRange(r.Context(), userID, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load mood logs"))
			return
		}
		if len(logs) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no mood logs to analyze"))
			return
		}

		out, err := predictor.Predict(r.Context(), logs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

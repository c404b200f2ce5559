package moodlogs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/moodpath/moodpath-backend/pkg/db"
	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/enums"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
	"github.com/moodpath/moodpath-backend/pkg/pagination"
)

const dayFormat = "2006-01-02"

// Service defines the behavior needed by the mood log controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateMoodLogRequest) (*MoodLogDTO, error)
	List(ctx context.Context, userID uuid.UUID, fromDay, toDay string, page pagination.Params) (*ListMoodLogsResponse, error)
}

type repository interface {
	Create(ctx context.Context, log *models.MoodLog) error
	ExistsForDay(ctx context.Context, userID uuid.UUID, day string) (bool, error)
	List(ctx context.Context, params listParams) ([]models.MoodLog, *pagination.Cursor, error)
}

type service struct {
	repo repository
	now  func() time.Time
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo repository
	Now  func() time.Time
}

// NewService constructs a mood log service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("mood log repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateMoodLogRequest) (*MoodLogDTO, error) {
	mood, err := enums.ParseMood(req.Mood)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	sleep, err := enums.ParseSleepQuality(req.SleepQuality)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	now := s.now().UTC()
	day := now.Format(dayFormat)

	exists, err := s.repo.ExistsForDay(ctx, userID, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check daily log")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "mood already logged today").
			WithDetails(map[string]string{"date": day})
	}

	log := &models.MoodLog{
		UserID:       userID,
		Mood:         mood,
		Activities:   req.Activities,
		Social:       req.Social,
		Health:       req.Health,
		SleepQuality: sleep,
		LoggedAt:     now,
		LoggedOn:     day,
	}
	if err := s.repo.Create(ctx, log); err != nil {
		// The unique index closes the race between the check and the insert.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "mood already logged today").
				WithDetails(map[string]string{"date": day})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create mood log")
	}

	dto := FromModel(log)
	return &dto, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, fromDay, toDay string, page pagination.Params) (*ListMoodLogsResponse, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	logs, next, err := s.repo.List(ctx, listParams{
		UserID:  userID,
		FromDay: fromDay,
		ToDay:   toDay,
		Limit:   page.Limit,
		Cursor:  cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list mood logs")
	}

	resp := &ListMoodLogsResponse{Logs: make([]MoodLogDTO, 0, len(logs))}
	for i := range logs {
		resp.Logs = append(resp.Logs, FromModel(&logs[i]))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		resp.NextCursor = &encoded
	}
	return resp, nil
}

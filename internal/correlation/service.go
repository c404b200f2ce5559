package correlation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/enums"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
)

// Service computes and persists weekly correlation statistics.
type Service interface {
	ComputeForUser(ctx context.Context, userID uuid.UUID) (*WeeklyStats, error)
	SnapshotWeek(ctx context.Context) (int, error)
}

type moodLogReader interface {
	ListRange(ctx context.Context, userID uuid.UUID, fromDay, toDay string) ([]models.MoodLog, error)
	DistinctUserIDsInRange(ctx context.Context, fromDay, toDay string) ([]uuid.UUID, error)
}

type repository interface {
	SaveAll(ctx context.Context, results []models.CorrelationResult) error
	HasSnapshot(ctx context.Context, userID uuid.UUID, weekStart string) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]models.CorrelationResult, error)
}

type service struct {
	logs moodLogReader
	repo repository
	now  func() time.Time
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	MoodLogs moodLogReader
	Repo     repository
	Now      func() time.Time
}

// NewService constructs a correlation service.
func NewService(params ServiceParams) (Service, error) {
	if params.MoodLogs == nil {
		return nil, fmt.Errorf("mood log reader is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("correlation repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{logs: params.MoodLogs, repo: params.Repo, now: now}, nil
}

// ComputeForUser derives the current ISO week's statistics for one user,
// persists the snapshot, and returns it.
func (s *service) ComputeForUser(ctx context.Context, userID uuid.UUID) (*WeeklyStats, error) {
	monday, sunday := WeekBounds(s.now())

	logs, err := s.logs.ListRange(ctx, userID, monday, sunday)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load week logs")
	}

	stats := ComputeWeekly(monday, logs)

	rows, err := snapshotRows(userID, stats)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode snapshot")
	}
	if err := s.repo.SaveAll(ctx, rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist snapshot")
	}
	return &stats, nil
}

// SnapshotWeek computes and persists the current week's statistics for every
// user with logs in the week, skipping users already snapshotted. Returns the
// number of users processed.
func (s *service) SnapshotWeek(ctx context.Context) (int, error) {
	monday, sunday := WeekBounds(s.now())

	userIDs, err := s.logs.DistinctUserIDsInRange(ctx, monday, sunday)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list active users")
	}

	processed := 0
	for _, userID := range userIDs {
		done, err := s.repo.HasSnapshot(ctx, userID, monday)
		if err != nil {
			return processed, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check snapshot")
		}
		if done {
			continue
		}

		logs, err := s.logs.ListRange(ctx, userID, monday, sunday)
		if err != nil {
			return processed, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load week logs")
		}

		rows, err := snapshotRows(userID, ComputeWeekly(monday, logs))
		if err != nil {
			return processed, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode snapshot")
		}
		if err := s.repo.SaveAll(ctx, rows); err != nil {
			return processed, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist snapshot")
		}
		processed++
	}
	return processed, nil
}

func snapshotRows(userID uuid.UUID, stats WeeklyStats) ([]models.CorrelationResult, error) {
	var rows []models.CorrelationResult

	if entry := stats.MoodActivity; entry != nil {
		mood := entry.Mood
		activity := entry.Activity
		percentage := entry.Percentage
		rows = append(rows, models.CorrelationResult{
			UserID:     userID,
			WeekStart:  stats.WeekStart,
			Kind:       enums.CorrelationMoodActivity,
			Mood:       &mood,
			Activity:   &activity,
			Percentage: &percentage,
		})
	}

	if entry := stats.Sleep; entry != nil {
		breakdown, err := json.Marshal(entry.Breakdown)
		if err != nil {
			return nil, err
		}
		verdict := entry.Verdict
		rows = append(rows, models.CorrelationResult{
			UserID:         userID,
			WeekStart:      stats.WeekStart,
			Kind:           enums.CorrelationSleepQuality,
			SleepBreakdown: datatypes.JSON(breakdown),
			SleepVerdict:   &verdict,
		})
	}

	return rows, nil
}

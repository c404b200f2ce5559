package moodlogs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/pagination"
)

// Repository exposes mood log persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a mood logs repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type listParams struct {
	UserID  uuid.UUID
	FromDay string
	ToDay   string
	Limit   int
	Cursor  *pagination.Cursor
}

// Create inserts a new mood log.
func (r *Repository) Create(ctx context.Context, log *models.MoodLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ExistsForDay reports whether the user already has a log for the given UTC day.
func (r *Repository) ExistsForDay(ctx context.Context, userID uuid.UUID, day string) (bool, error) {
	var log models.MoodLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND logged_on = ?", userID, day).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns a page of the user's logs, newest first.
func (r *Repository) List(ctx context.Context, params listParams) ([]models.MoodLog, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.MoodLog{}).Where("user_id = ?", params.UserID)
	if params.FromDay != "" {
		query = query.Where("logged_on >= ?", params.FromDay)
	}
	if params.ToDay != "" {
		query = query.Where("logged_on <= ?", params.ToDay)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var logs []models.MoodLog
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, nil, err
	}

	if len(logs) > normalized {
		next := logs[normalized]
		logs = logs[:normalized]
		return logs, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return logs, nil, nil
}

// ListRange returns all of the user's logs with logged_on inside [fromDay, toDay],
// oldest first. Weekly correlation reads run through this.
func (r *Repository) ListRange(ctx context.Context, userID uuid.UUID, fromDay, toDay string) ([]models.MoodLog, error) {
	var logs []models.MoodLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND logged_on >= ? AND logged_on <= ?", userID, fromDay, toDay).
		Order("logged_on ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// DistinctUserIDsInRange lists every user with at least one log in the day range.
func (r *Repository) DistinctUserIDsInRange(ctx context.Context, fromDay, toDay string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.MoodLog{}).
		Where("logged_on >= ? AND logged_on <= ?", fromDay, toDay).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

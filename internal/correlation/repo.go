package correlation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
)

// Repository persists correlation snapshots.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a correlation repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveAll inserts snapshot rows in one transaction.
func (r *Repository) SaveAll(ctx context.Context, results []models.CorrelationResult) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&results).Error
}

// HasSnapshot reports whether the user already has rows for the week.
func (r *Repository) HasSnapshot(ctx context.Context, userID uuid.UUID, weekStart string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CorrelationResult{}).
		Where("user_id = ? AND week_start = ?", userID, weekStart).
		Count(&count).Error
	return count > 0, err
}

// ListRecent returns the newest snapshot rows across all users.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.CorrelationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	var results []models.CorrelationResult
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

// ListByUser returns the user's snapshot rows, newest week first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.CorrelationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	var results []models.CorrelationResult
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start DESC, created_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

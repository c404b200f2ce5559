package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
)

// Repository exposes the deactivation state transitions.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a lifecycle repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// MarkPending schedules the user's deactivation. Re-invocation simply writes a
// fresh deactivate_at, resetting the timer.
func (r *Repository) MarkPending(ctx context.Context, id uuid.UUID, deactivateAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND is_deactivated = ?", id, false).
		UpdateColumns(map[string]any{
			"pending_deactivation": true,
			"deactivate_at":        deactivateAt,
		})
	return result.RowsAffected, result.Error
}

// FindExpiredPending returns every user whose grace period has lapsed.
func (r *Repository) FindExpiredPending(ctx context.Context, now time.Time) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("pending_deactivation = ? AND deactivate_at < ? AND is_deactivated = ?", true, now, false).
		Find(&users).Error
	return users, err
}

// Deactivate finalizes one user's deactivation.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"is_deactivated":       true,
			"pending_deactivation": false,
			"deactivated_at":       now,
		}).Error
}

// SoftDelete deactivates immediately, skipping the grace period.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND is_deactivated = ?", id, false).
		UpdateColumns(map[string]any{
			"is_deactivated":       true,
			"pending_deactivation": false,
			"deactivate_at":        nil,
			"deactivated_at":       now,
		})
	return result.RowsAffected, result.Error
}

// Reactivate clears every deactivation flag.
func (r *Repository) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"is_deactivated":       false,
			"pending_deactivation": false,
			"deactivate_at":        nil,
			"deactivated_at":       nil,
		}).Error
}

// ListInactive returns every deactivated user, most recently deactivated first.
func (r *Repository) ListInactive(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("is_deactivated = ?", true).
		Order("deactivated_at DESC").
		Find(&users).Error
	return users, err
}

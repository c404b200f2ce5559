package admin

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
)

// Repository runs the read-only aggregate queries behind the admin views.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an admin repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UserStateCounts tallies users by lifecycle state.
type UserStateCounts struct {
	Active      int64 `json:"active"`
	Pending     int64 `json:"pending"`
	Deactivated int64 `json:"deactivated"`
}

// PromptEngagement is comment volume for one prompt.
type PromptEngagement struct {
	PromptID     string `json:"prompt_id"`
	Question     string `json:"question"`
	CommentCount int64  `json:"comment_count"`
}

// SignupTimestamps returns the creation times of users signed up since the
// given instant. Month bucketing happens in the service, keeping the query
// portable.
func (r *Repository) SignupTimestamps(ctx context.Context, since time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &stamps).Error
	return stamps, err
}

// CountUserStates tallies active, pending, and deactivated users.
func (r *Repository) CountUserStates(ctx context.Context) (UserStateCounts, error) {
	var counts UserStateCounts

	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_deactivated = ? AND pending_deactivation = ?", false, false).
		Count(&counts.Active).Error
	if err != nil {
		return counts, err
	}

	err = r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_deactivated = ? AND pending_deactivation = ?", false, true).
		Count(&counts.Pending).Error
	if err != nil {
		return counts, err
	}

	err = r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_deactivated = ?", true).
		Count(&counts.Deactivated).Error
	return counts, err
}

// PromptEngagements returns comment counts per prompt, busiest first.
func (r *Repository) PromptEngagements(ctx context.Context, limit int) ([]PromptEngagement, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []PromptEngagement
	err := r.db.WithContext(ctx).
		Table("prompts").
		Select("prompts.id AS prompt_id, prompts.question AS question, COUNT(forum_comments.id) AS comment_count").
		Joins("LEFT JOIN forum_comments ON forum_comments.prompt_id = prompts.id").
		Group("prompts.id, prompts.question").
		Order("comment_count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// DistinctCommenters counts how many users have commented at least once.
func (r *Repository) DistinctCommenters(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ForumComment{}).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

// ListUsers returns every user, newest first.
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

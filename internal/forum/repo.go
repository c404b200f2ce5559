package forum

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
)

// Repository exposes prompt and comment persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a forum repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreatePrompt inserts a new discussion question.
func (r *Repository) CreatePrompt(ctx context.Context, prompt *models.Prompt) error {
	return r.db.WithContext(ctx).Create(prompt).Error
}

// FindPromptByID loads one prompt.
func (r *Repository) FindPromptByID(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	var prompt models.Prompt
	if err := r.db.WithContext(ctx).First(&prompt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &prompt, nil
}

// FindPromptForDay returns the prompt already selected for the given UTC day,
// or nil when none was.
func (r *Repository) FindPromptForDay(ctx context.Context, day string) (*models.Prompt, error) {
	var prompt models.Prompt
	err := r.db.WithContext(ctx).Where("used_on = ?", day).First(&prompt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prompt, nil
}

// FindRandomUnusedPrompt picks one unused prompt, or nil when the pool is empty.
func (r *Repository) FindRandomUnusedPrompt(ctx context.Context) (*models.Prompt, error) {
	var prompt models.Prompt
	err := r.db.WithContext(ctx).
		Where("is_used = ?", false).
		Order("RANDOM()").
		First(&prompt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prompt, nil
}

// ClaimPrompt flips is_used false to true and stamps used_on. The conditional
// WHERE makes the transition happen exactly once even under racing selectors;
// the return value reports whether this caller won the claim.
func (r *Repository) ClaimPrompt(ctx context.Context, id uuid.UUID, day string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Prompt{}).
		Where("id = ? AND is_used = ?", id, false).
		UpdateColumns(map[string]any{
			"is_used": true,
			"used_on": day,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListPrompts returns every prompt, newest first.
func (r *Repository) ListPrompts(ctx context.Context) ([]models.Prompt, error) {
	var prompts []models.Prompt
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&prompts).Error
	return prompts, err
}

// DeletePromptIfUnused removes a prompt that was never selected.
func (r *Repository) DeletePromptIfUnused(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND is_used = ?", id, false).
		Delete(&models.Prompt{})
	return result.RowsAffected, result.Error
}

// CreateComment appends a comment under a prompt.
func (r *Repository) CreateComment(ctx context.Context, comment *models.ForumComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListComments returns every comment under a prompt, oldest first.
func (r *Repository) ListComments(ctx context.Context, promptID uuid.UUID) ([]models.ForumComment, error) {
	var comments []models.ForumComment
	err := r.db.WithContext(ctx).
		Where("prompt_id = ?", promptID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// FindCommentByID loads one comment.
func (r *Repository) FindCommentByID(ctx context.Context, id uuid.UUID) (*models.ForumComment, error) {
	var comment models.ForumComment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes one comment.
func (r *Repository) DeleteComment(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ForumComment{})
	return result.RowsAffected, result.Error
}

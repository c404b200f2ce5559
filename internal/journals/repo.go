package journals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/pagination"
)

// Repository exposes journal persistence operations. Reads always exclude
// soft-deleted rows; deletes only ever set the flag.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a journals repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type listParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor *pagination.Cursor
}

// Create inserts a new journal entry.
func (r *Repository) Create(ctx context.Context, journal *models.Journal) error {
	return r.db.WithContext(ctx).Create(journal).Error
}

// FindByID loads one live entry owned by the user.
func (r *Repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Journal, error) {
	var journal models.Journal
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND deleted = ?", id, userID, false).
		First(&journal).Error
	if err != nil {
		return nil, err
	}
	return &journal, nil
}

// List returns a page of the user's live entries, newest first.
func (r *Repository) List(ctx context.Context, params listParams) ([]models.Journal, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Journal{}).
		Where("user_id = ? AND deleted = ?", params.UserID, false)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var journals []models.Journal
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&journals).Error; err != nil {
		return nil, nil, err
	}

	if len(journals) > normalized {
		next := journals[normalized]
		journals = journals[:normalized]
		return journals, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return journals, nil, nil
}

// Update applies column changes to one live entry owned by the user.
func (r *Repository) Update(ctx context.Context, userID, id uuid.UUID, columns map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Journal{}).
		Where("id = ? AND user_id = ? AND deleted = ?", id, userID, false).
		UpdateColumns(columns)
	return result.RowsAffected, result.Error
}

// SoftDelete flags the entry deleted. Affecting zero rows is not an error so
// repeat deletes stay idempotent.
func (r *Repository) SoftDelete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Journal{}).
		Where("id = ? AND user_id = ? AND deleted = ?", id, userID, false).
		UpdateColumn("deleted", true)
	return result.RowsAffected, result.Error
}

// Exists reports whether any row (deleted or not) exists for the user and id.
func (r *Repository) Exists(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Journal{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	return count > 0, err
}

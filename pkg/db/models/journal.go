package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Journal is a user-authored entry with optional images. Rows are only ever
// soft-deleted; the Deleted flag hides them from reads.
type Journal struct {
	ID        uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID                   `gorm:"column:user_id;type:uuid;not null;index"`
	Title     string                      `gorm:"column:title;not null"`
	Body      string                      `gorm:"column:body;not null"`
	ImageURLs datatypes.JSONSlice[string] `gorm:"column:image_urls"`
	Deleted   bool                        `gorm:"column:deleted;not null;default:false"`
	CreatedAt time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

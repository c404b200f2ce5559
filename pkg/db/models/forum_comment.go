package models

import (
	"time"

	"github.com/google/uuid"
)

// ForumComment is one discussion comment under a prompt. The set of comments
// for a prompt is append-only, but an owner (or an admin) may delete their own.
type ForumComment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PromptID  uuid.UUID `gorm:"column:prompt_id;type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Body      string    `gorm:"column:body;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Prompt is a discussion question. IsUsed flips false to true exactly once,
// when the prompt is claimed as today's prompt; UsedOn records the UTC date it
// was selected for.
type Prompt struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Question  string    `gorm:"column:question;type:text;not null;uniqueIndex"`
	IsUsed    bool      `gorm:"column:is_used;not null;default:false"`
	UsedOn    *string   `gorm:"column:used_on;type:text;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

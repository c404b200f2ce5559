package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/moodpath/moodpath-backend/pkg/enums"
)

// User represents the canonical identity entity. Users are never hard-deleted;
// the deactivation flags drive the account lifecycle state machine.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	AvatarURL    *string    `gorm:"column:avatar_url"`
	Role         enums.Role `gorm:"column:role;type:text;not null;default:user"`

	IsDeactivated       bool       `gorm:"column:is_deactivated;not null;default:false"`
	PendingDeactivation bool       `gorm:"column:pending_deactivation;not null;default:false"`
	DeactivateAt        *time.Time `gorm:"column:deactivate_at"`
	DeactivatedAt       *time.Time `gorm:"column:deactivated_at"`

	LastLoginAt *time.Time `gorm:"column:last_login_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/moodpath/moodpath-backend/pkg/enums"
)

// CorrelationResult is a derived snapshot of one dimension of a user's weekly
// statistics. Rows are written once per computation and never updated.
type CorrelationResult struct {
	ID        uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	WeekStart string                `gorm:"column:week_start;type:text;not null;index"`
	Kind      enums.CorrelationKind `gorm:"column:kind;type:text;not null"`

	// Mood/activity dimension.
	Mood       *string `gorm:"column:mood"`
	Activity   *string `gorm:"column:activity"`
	Percentage *string `gorm:"column:percentage"`

	// Sleep dimension: bucket percentages plus the week's verdict.
	SleepBreakdown datatypes.JSON `gorm:"column:sleep_breakdown"`
	SleepVerdict   *string        `gorm:"column:sleep_verdict"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

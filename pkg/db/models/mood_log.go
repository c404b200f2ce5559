package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/moodpath/moodpath-backend/pkg/enums"
)

// MoodLog is one user's mood entry for one calendar day. LoggedOn is the UTC
// date of the entry; the (user_id, logged_on) unique index enforces the
// one-log-per-day invariant alongside the write-time check.
type MoodLog struct {
	ID           uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID                   `gorm:"column:user_id;type:uuid;not null;index;uniqueIndex:idx_mood_logs_user_day,priority:1"`
	Mood         enums.Mood                  `gorm:"column:mood;type:text;not null"`
	Activities   datatypes.JSONSlice[string] `gorm:"column:activities"`
	Social       datatypes.JSONSlice[string] `gorm:"column:social"`
	Health       datatypes.JSONSlice[string] `gorm:"column:health"`
	SleepQuality enums.SleepQuality          `gorm:"column:sleep_quality;type:text;not null"`
	LoggedAt     time.Time                   `gorm:"column:logged_at;not null"`
	LoggedOn     string                      `gorm:"column:logged_on;type:text;not null;uniqueIndex:idx_mood_logs_user_day,priority:2"`
	CreatedAt    time.Time                   `gorm:"column:created_at;autoCreateTime"`
}

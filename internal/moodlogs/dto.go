package moodlogs

import (
	"time"

	"github.com/google/uuid"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/enums"
)

// CreateMoodLogRequest is the payload accepted by the create endpoint.
type CreateMoodLogRequest struct {
	Mood         string   `json:"mood" validate:"required"`
	Activities   []string `json:"activities" validate:"max=20,dive,min=1,max=64"`
	Social       []string `json:"social" validate:"max=20,dive,min=1,max=64"`
	Health       []string `json:"health" validate:"max=20,dive,min=1,max=64"`
	SleepQuality string   `json:"sleep_quality" validate:"required"`
}

// MoodLogDTO is the transport shape of one mood log entry.
type MoodLogDTO struct {
	ID           uuid.UUID          `json:"id"`
	Mood         enums.Mood         `json:"mood"`
	Activities   []string           `json:"activities"`
	Social       []string           `json:"social"`
	Health       []string           `json:"health"`
	SleepQuality enums.SleepQuality `json:"sleep_quality"`
	LoggedAt     time.Time          `json:"logged_at"`
	LoggedOn     string             `json:"logged_on"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ListMoodLogsResponse carries a page of logs plus the next cursor, if any.
type ListMoodLogsResponse struct {
	Logs       []MoodLogDTO `json:"logs"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

func FromModel(m *models.MoodLog) MoodLogDTO {
	return MoodLogDTO{
		ID:           m.ID,
		Mood:         m.Mood,
		Activities:   append([]string(nil), m.Activities...),
		Social:       append([]string(nil), m.Social...),
		Health:       append([]string(nil), m.Health...),
		SleepQuality: m.SleepQuality,
		LoggedAt:     m.LoggedAt,
		LoggedOn:     m.LoggedOn,
		CreatedAt:    m.CreatedAt,
	}
}

package journals

import (
	"time"

	"github.com/google/uuid"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
)

// CreateJournalRequest is the payload accepted by the create endpoint. Image
// URLs come back from the media presign flow.
type CreateJournalRequest struct {
	Title     string   `json:"title" validate:"required,max=200"`
	Body      string   `json:"body" validate:"required"`
	ImageURLs []string `json:"image_urls" validate:"max=10,dive,url"`
}

// UpdateJournalRequest carries the editable fields.
type UpdateJournalRequest struct {
	Title     *string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Body      *string   `json:"body,omitempty"`
	ImageURLs *[]string `json:"image_urls,omitempty" validate:"omitempty,max=10,dive,url"`
}

// JournalDTO is the transport shape of one journal entry.
type JournalDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ImageURLs []string  `json:"image_urls"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListJournalsResponse carries a page of entries plus the next cursor, if any.
type ListJournalsResponse struct {
	Journals   []JournalDTO `json:"journals"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

func FromModel(j *models.Journal) JournalDTO {
	return JournalDTO{
		ID:        j.ID,
		Title:     j.Title,
		Body:      j.Body,
		ImageURLs: append([]string(nil), j.ImageURLs...),
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

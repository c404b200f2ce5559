package forum

import (
	"time"

	"github.com/google/uuid"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
)

// CreatePromptRequest is the admin payload that adds a discussion question.
type CreatePromptRequest struct {
	Question string `json:"question" validate:"required,min=10,max=500"`
}

// PromptDTO is the transport shape of a discussion prompt.
type PromptDTO struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	IsUsed    bool      `json:"is_used"`
	UsedOn    *string   `json:"used_on,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest posts a comment under a prompt.
type CreateCommentRequest struct {
	PromptID uuid.UUID `json:"prompt_id" validate:"required"`
	Body     string    `json:"body" validate:"required,max=2000"`
}

// CommentDTO is the transport shape of one forum comment.
type CommentDTO struct {
	ID        uuid.UUID `json:"id"`
	PromptID  uuid.UUID `json:"prompt_id"`
	UserID    uuid.UUID `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func promptFromModel(p *models.Prompt) PromptDTO {
	return PromptDTO{
		ID:        p.ID,
		Question:  p.Question,
		IsUsed:    p.IsUsed,
		UsedOn:    p.UsedOn,
		CreatedAt: p.CreatedAt,
	}
}

func commentFromModel(c *models.ForumComment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		PromptID:  c.PromptID,
		UserID:    c.UserID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

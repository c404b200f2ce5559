package admin

import (
	"time"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
)

// MonthlySignups is the signup count for one calendar month.
type MonthlySignups struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// ForumEngagement summarizes community participation.
type ForumEngagement struct {
	Prompts            []PromptEngagement `json:"prompts"`
	DistinctCommenters int64              `json:"distinct_commenters"`
}

// OverviewDTO is the admin dashboard payload.
type OverviewDTO struct {
	Signups    []MonthlySignups `json:"signups"`
	UserStates UserStateCounts  `json:"user_states"`
	Forum      ForumEngagement  `json:"forum"`
}

// UserSummaryDTO is the admin-facing user row.
type UserSummaryDTO struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Role                string     `json:"role"`
	IsDeactivated       bool       `json:"is_deactivated"`
	PendingDeactivation bool       `json:"pending_deactivation"`
	DeactivateAt        *time.Time `json:"deactivate_at,omitempty"`
	DeactivatedAt       *time.Time `json:"deactivated_at,omitempty"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func toUserSummaryDTO(u models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:                  u.ID.String(),
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Role:                string(u.Role),
		IsDeactivated:       u.IsDeactivated,
		PendingDeactivation: u.PendingDeactivation,
		DeactivateAt:        u.DeactivateAt,
		DeactivatedAt:       u.DeactivatedAt,
		LastLoginAt:         u.LastLoginAt,
		CreatedAt:           u.CreatedAt,
	}
}

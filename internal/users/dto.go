package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID                  uuid.UUID  `json:"id"`
	Email               string     `json:"email"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	AvatarURL           *string    `json:"avatar_url,omitempty"`
	Role                enums.Role `json:"role"`
	IsDeactivated       bool       `json:"is_deactivated"`
	PendingDeactivation bool       `json:"pending_deactivation"`
	DeactivateAt        *time.Time `json:"deactivate_at,omitempty"`
	DeactivatedAt       *time.Time `json:"deactivated_at,omitempty"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	AvatarURL    *string
	Role         enums.Role
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:                  u.ID,
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		AvatarURL:           u.AvatarURL,
		Role:                u.Role,
		IsDeactivated:       u.IsDeactivated,
		PendingDeactivation: u.PendingDeactivation,
		DeactivateAt:        u.DeactivateAt,
		DeactivatedAt:       u.DeactivatedAt,
		LastLoginAt:         u.LastLoginAt,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleUser
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		AvatarURL:    c.AvatarURL,
		Role:         role,
	}
}

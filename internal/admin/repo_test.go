package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/enums"
)

func setupAdminTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  avatar_url TEXT,
  role TEXT NOT NULL DEFAULT 'user',
  is_deactivated INTEGER NOT NULL DEFAULT 0,
  pending_deactivation INTEGER NOT NULL DEFAULT 0,
  deactivate_at DATETIME,
  deactivated_at DATETIME,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	prompts := `
CREATE TABLE IF NOT EXISTS prompts (
  id TEXT PRIMARY KEY,
  question TEXT NOT NULL UNIQUE,
  is_used INTEGER NOT NULL DEFAULT 0,
  used_on TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	comments := `
CREATE TABLE IF NOT EXISTS forum_comments (
  id TEXT PRIMARY KEY,
  prompt_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  body TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(users).Error)
	require.NoError(t, conn.Exec(prompts).Error)
	require.NoError(t, conn.Exec(comments).Error)
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, email string, createdAt time.Time, mutate func(*models.User)) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         enums.RoleUser,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if mutate != nil {
		mutate(user)
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func TestRepositoryCountUserStates(t *testing.T) {
	conn := setupAdminTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	seedUser(t, conn, "active@example.com", now, nil)
	seedUser(t, conn, "pending@example.com", now, func(u *models.User) {
		u.PendingDeactivation = true
		at := now.Add(24 * time.Hour)
		u.DeactivateAt = &at
	})
	seedUser(t, conn, "gone@example.com", now, func(u *models.User) {
		u.IsDeactivated = true
		u.DeactivatedAt = &now
	})

	counts, err := repo.CountUserStates(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), counts.Active)
	require.Equal(t, int64(1), counts.Pending)
	require.Equal(t, int64(1), counts.Deactivated)
}

func TestRepositorySignupTimestampsWindow(t *testing.T) {
	conn := setupAdminTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	seedUser(t, conn, "old@example.com", now.AddDate(-2, 0, 0), nil)
	seedUser(t, conn, "recent@example.com", now.AddDate(0, -1, 0), nil)
	seedUser(t, conn, "new@example.com", now, nil)

	stamps, err := repo.SignupTimestamps(ctx, now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	require.Len(t, stamps, 2)
}

func TestRepositoryPromptEngagements(t *testing.T) {
	conn := setupAdminTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	busy := &models.Prompt{ID: uuid.New(), Question: "What are you grateful for?", CreatedAt: now, UpdatedAt: now}
	quiet := &models.Prompt{ID: uuid.New(), Question: "What drained you today?", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, conn.Create(busy).Error)
	require.NoError(t, conn.Create(quiet).Error)

	alice := uuid.New()
	bob := uuid.New()
	for _, c := range []models.ForumComment{
		{ID: uuid.New(), PromptID: busy.ID, UserID: alice, Body: "My morning walk.", CreatedAt: now},
		{ID: uuid.New(), PromptID: busy.ID, UserID: bob, Body: "Coffee with a friend.", CreatedAt: now},
		{ID: uuid.New(), PromptID: busy.ID, UserID: alice, Body: "Also the sunshine.", CreatedAt: now},
	} {
		comment := c
		require.NoError(t, conn.Create(&comment).Error)
	}

	rows, err := repo.PromptEngagements(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, busy.ID.String(), rows[0].PromptID)
	require.Equal(t, int64(3), rows[0].CommentCount)
	require.Equal(t, int64(0), rows[1].CommentCount)

	commenters, err := repo.DistinctCommenters(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), commenters)
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/moodpath/moodpath-backend/pkg/auth"
	"github.com/moodpath/moodpath-backend/pkg/config"
	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/enums"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
	"github.com/moodpath/moodpath-backend/pkg/security"
)

type fakeUserRepo struct {
	user           *models.User
	lastLogin      *time.Time
	clearedPending bool
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.user
	return &copied, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.user
	return &copied, nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, at time.Time) error {
	f.lastLogin = &at
	return nil
}

func (f *fakeUserRepo) ClearPendingDeactivation(_ context.Context, _ uuid.UUID) error {
	f.clearedPending = true
	return nil
}

type fakeSessionManager struct {
	revoked string
}

func (f *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	return "refresh-" + accessID, nil
}

func (f *fakeSessionManager) Rotate(_ context.Context, oldAccessID, _ string) (string, string, error) {
	return "rotated-" + oldAccessID, "refresh-rotated", nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	f.revoked = accessID
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "moodpath", ExpirationMinutes: 30}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hashed
}

func buildTestService(t *testing.T, repo *fakeUserRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: &fakeSessionManager{},
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceLoginIssuesTokens(t *testing.T) {
	password := "correct horse"
	repo := &fakeUserRepo{user: &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.RoleUser,
	}}
	svc := buildTestService(t, repo)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.RoleUser {
		t.Fatalf("expected user role claim, got %s", claims.Role)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token to be set")
	}
	if repo.lastLogin == nil {
		t.Fatal("expected last login to be recorded")
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	repo := &fakeUserRepo{user: &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: mustHashPassword(t, "right"),
		Role:         enums.RoleUser,
	}}
	svc := buildTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceLoginRejectsDeactivatedAccount(t *testing.T) {
	password := "pw-123456"
	repo := &fakeUserRepo{user: &models.User{
		ID:            uuid.New(),
		Email:         "gone@example.com",
		PasswordHash:  mustHashPassword(t, password),
		Role:          enums.RoleUser,
		IsDeactivated: true,
	}}
	svc := buildTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "gone@example.com", Password: password})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestServiceLoginCancelsPendingDeactivation(t *testing.T) {
	password := "pw-123456"
	deactivateAt := time.Now().Add(12 * time.Hour)
	repo := &fakeUserRepo{user: &models.User{
		ID:                  uuid.New(),
		Email:               "back@example.com",
		PasswordHash:        mustHashPassword(t, password),
		Role:                enums.RoleUser,
		PendingDeactivation: true,
		DeactivateAt:        &deactivateAt,
	}}
	svc := buildTestService(t, repo)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "back@example.com", Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !repo.clearedPending {
		t.Fatal("expected pending deactivation to be cleared on login")
	}
	if resp.User.PendingDeactivation {
		t.Fatal("expected response user to reflect cancelled deactivation")
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	userID := uuid.New()
	repo := &fakeUserRepo{user: &models.User{
		ID:    userID,
		Email: "user@example.com",
		Role:  enums.RoleUser,
	}}
	svc := buildTestService(t, repo)

	accessToken, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.RoleUser,
		JTI:    "session-1",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "refresh-session-1",
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != "rotated-session-1" {
		t.Fatalf("expected rotated session id, got %s", claims.ID)
	}
}

func TestServiceRefreshRejectsDeactivatedAccount(t *testing.T) {
	userID := uuid.New()
	repo := &fakeUserRepo{user: &models.User{
		ID:            userID,
		Email:         "gone@example.com",
		Role:          enums.RoleUser,
		IsDeactivated: true,
	}}
	svc := buildTestService(t, repo)

	accessToken, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.RoleUser,
		JTI:    "session-1",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "refresh-session-1",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestServiceRefreshRejectsUnknownAccount(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := buildTestService(t, repo)

	accessToken, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleUser,
		JTI:    "session-1",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "refresh-session-1",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

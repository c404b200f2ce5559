package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/enums"
)

type fakeAdminRepo struct {
	stamps     []time.Time
	states     UserStateCounts
	prompts    []PromptEngagement
	commenters int64
	users      []models.User
}

func (f *fakeAdminRepo) SignupTimestamps(_ context.Context, since time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, ts := range f.stamps {
		if !ts.Before(since) {
			out = append(out, ts)
		}
	}
	return out, nil
}

func (f *fakeAdminRepo) CountUserStates(context.Context) (UserStateCounts, error) {
	return f.states, nil
}

func (f *fakeAdminRepo) PromptEngagements(context.Context, int) ([]PromptEngagement, error) {
	return f.prompts, nil
}

func (f *fakeAdminRepo) DistinctCommenters(context.Context) (int64, error) {
	return f.commenters, nil
}

func (f *fakeAdminRepo) ListUsers(context.Context) ([]models.User, error) {
	return f.users, nil
}

type fakeSnapshotReader struct {
	results []models.CorrelationResult
}

func (f *fakeSnapshotReader) ListRecent(_ context.Context, limit int) ([]models.CorrelationResult, error) {
	if limit > 0 && limit < len(f.results) {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func buildAdminService(t *testing.T, repo *fakeAdminRepo, now func() time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Snapshots: &fakeSnapshotReader{}, Now: now})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestOverviewBucketsSignupsByMonth(t *testing.T) {
	fixedNow := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)
	repo := &fakeAdminRepo{
		stamps: []time.Time{
			time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC),
			time.Date(2026, time.January, 20, 8, 0, 0, 0, time.UTC),
			// Outside the twelve-month window.
			time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
		states:     UserStateCounts{Active: 5, Pending: 1, Deactivated: 2},
		commenters: 3,
	}
	svc := buildAdminService(t, repo, func() time.Time { return fixedNow })

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}

	if len(overview.Signups) != 12 {
		t.Fatalf("expected 12 month buckets, got %d", len(overview.Signups))
	}
	if overview.Signups[0].Month != "2025-04" {
		t.Fatalf("expected window to start at 2025-04, got %s", overview.Signups[0].Month)
	}
	last := overview.Signups[len(overview.Signups)-1]
	if last.Month != "2026-03" || last.Count != 2 {
		t.Fatalf("expected 2 signups in 2026-03, got %+v", last)
	}

	byMonth := make(map[string]int)
	for _, m := range overview.Signups {
		byMonth[m.Month] = m.Count
	}
	if byMonth["2026-01"] != 1 {
		t.Fatalf("expected 1 signup in 2026-01, got %d", byMonth["2026-01"])
	}
	if byMonth["2025-12"] != 0 {
		t.Fatalf("expected empty month to report zero, got %d", byMonth["2025-12"])
	}

	if overview.UserStates.Active != 5 {
		t.Fatalf("expected active count passthrough, got %d", overview.UserStates.Active)
	}
	if overview.Forum.DistinctCommenters != 3 {
		t.Fatalf("expected 3 distinct commenters, got %d", overview.Forum.DistinctCommenters)
	}
}

func TestListUsersMapsDTO(t *testing.T) {
	deactivatedAt := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeAdminRepo{
		users: []models.User{{
			ID:            uuid.New(),
			Email:         "maya@example.com",
			FirstName:     "Maya",
			LastName:      "Lin",
			Role:          enums.RoleUser,
			IsDeactivated: true,
			DeactivatedAt: &deactivatedAt,
		}},
	}
	svc := buildAdminService(t, repo, nil)

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].Email != "maya@example.com" || !users[0].IsDeactivated {
		t.Fatalf("unexpected mapping: %+v", users[0])
	}
	if users[0].DeactivatedAt == nil || !users[0].DeactivatedAt.Equal(deactivatedAt) {
		t.Fatalf("expected deactivated_at carried through")
	}
}

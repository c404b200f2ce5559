package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
)

// Service exposes the admin dashboard aggregates.
type Service interface {
	Overview(ctx context.Context) (*OverviewDTO, error)
	ListUsers(ctx context.Context) ([]UserSummaryDTO, error)
	RecentSnapshots(ctx context.Context, limit int) ([]models.CorrelationResult, error)
}

type repository interface {
	SignupTimestamps(ctx context.Context, since time.Time) ([]time.Time, error)
	CountUserStates(ctx context.Context) (UserStateCounts, error)
	PromptEngagements(ctx context.Context, limit int) ([]PromptEngagement, error)
	DistinctCommenters(ctx context.Context) (int64, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type snapshotReader interface {
	ListRecent(ctx context.Context, limit int) ([]models.CorrelationResult, error)
}

const signupMonths = 12

type service struct {
	repo      repository
	snapshots snapshotReader
	now       func() time.Time
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo      repository
	Snapshots snapshotReader
	Now       func() time.Time
}

// NewService constructs an admin service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot reader is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, snapshots: params.Snapshots, now: now}, nil
}

// Overview assembles the dashboard payload: signups per month over the last
// twelve months, user lifecycle counts, and forum engagement.
func (s *service) Overview(ctx context.Context) (*OverviewDTO, error) {
	now := s.now().UTC()
	since := monthStart(now).AddDate(0, -(signupMonths - 1), 0)

	stamps, err := s.repo.SignupTimestamps(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load signups")
	}

	states, err := s.repo.CountUserStates(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count user states")
	}

	prompts, err := s.repo.PromptEngagements(ctx, 20)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load prompt engagement")
	}

	commenters, err := s.repo.DistinctCommenters(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count commenters")
	}

	return &OverviewDTO{
		Signups:    bucketByMonth(stamps, since, now),
		UserStates: states,
		Forum: ForumEngagement{
			Prompts:            prompts,
			DistinctCommenters: commenters,
		},
	}, nil
}

// ListUsers returns the full user roster, newest first.
func (s *service) ListUsers(ctx context.Context) ([]UserSummaryDTO, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	dtos := make([]UserSummaryDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, toUserSummaryDTO(u))
	}
	return dtos, nil
}

// RecentSnapshots returns the newest correlation snapshot rows across users.
func (s *service) RecentSnapshots(ctx context.Context, limit int) ([]models.CorrelationResult, error) {
	results, err := s.snapshots.ListRecent(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list snapshots")
	}
	return results, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// bucketByMonth counts timestamps per calendar month, emitting a row for every
// month in the window so the dashboard never has gaps.
func bucketByMonth(stamps []time.Time, since, until time.Time) []MonthlySignups {
	counts := make(map[string]int)
	for _, ts := range stamps {
		counts[ts.UTC().Format("2006-01")]++
	}

	var months []MonthlySignups
	for cursor := monthStart(since); !cursor.After(until); cursor = cursor.AddDate(0, 1, 0) {
		key := cursor.Format("2006-01")
		months = append(months, MonthlySignups{Month: key, Count: counts[key]})
	}
	return months
}

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/moodpath/moodpath-backend/pkg/config"
	"github.com/moodpath/moodpath-backend/pkg/db/models"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
	"github.com/moodpath/moodpath-backend/pkg/logger"
)

// SweepResult reports one ProcessExpiredGracePeriods invocation. Skipped=true
// means another sweep held the guard; that is a non-error.
type SweepResult struct {
	Processed int  `json:"processed"`
	Skipped   bool `json:"skipped"`
}

// Service drives the account deactivation state machine:
// Active -> PendingDeactivation -> Deactivated -> Active, with a direct
// Active -> Deactivated path via SoftDelete.
type Service interface {
	InitiateDeactivation(ctx context.Context, userID uuid.UUID) error
	InitiateBulkDeactivation(ctx context.Context, userIDs []uuid.UUID) (int, error)
	ProcessExpiredGracePeriods(ctx context.Context) (SweepResult, error)
	ReactivateUser(ctx context.Context, userID uuid.UUID) error
	SoftDelete(ctx context.Context, userID uuid.UUID) error
	ListInactive(ctx context.Context) ([]models.User, error)
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	MarkPending(ctx context.Context, id uuid.UUID, deactivateAt time.Time) (int64, error)
	FindExpiredPending(ctx context.Context, now time.Time) ([]models.User, error)
	Deactivate(ctx context.Context, id uuid.UUID, now time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) (int64, error)
	Reactivate(ctx context.Context, id uuid.UUID) error
	ListInactive(ctx context.Context) ([]models.User, error)
}

type mailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type service struct {
	repo    repository
	mailer  mailSender
	cfg     config.LifecycleConfig
	logg    *logger.Logger
	now     func() time.Time
	running atomic.Bool
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo   repository
	Mailer mailSender
	Config config.LifecycleConfig
	Logger *logger.Logger
	Now    func() time.Time
}

// NewService constructs a lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("lifecycle repository is required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:   params.Repo,
		mailer: params.Mailer,
		cfg:    params.Config,
		logg:   params.Logger,
		now:    now,
	}, nil
}

// InitiateDeactivation schedules the user's deactivation at now plus the grace
// period and emails a notice. Re-invocation resets the timer.
func (s *service) InitiateDeactivation(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if user.IsDeactivated {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "user already deactivated")
	}

	deactivateAt := s.now().UTC().Add(s.cfg.GracePeriod)
	if _, err := s.repo.MarkPending(ctx, userID, deactivateAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark pending deactivation")
	}

	s.sendMail(ctx, user.Email, "Your account is scheduled for deactivation",
		fmt.Sprintf("<p>Hi %s,</p><p>Your account will be deactivated on %s. Log in before then to keep it active.</p>",
			user.FirstName, deactivateAt.Format(time.RFC1123)))
	return nil
}

// InitiateBulkDeactivation schedules a batch. Empty input is a validation
// error, not a silent no-op. Returns how many users were scheduled.
func (s *service) InitiateBulkDeactivation(ctx context.Context, userIDs []uuid.UUID) (int, error) {
	if len(userIDs) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "no user ids provided")
	}

	scheduled := 0
	for _, id := range userIDs {
		err := s.InitiateDeactivation(ctx, id)
		if err == nil {
			scheduled++
			continue
		}
		typed := pkgerrors.As(err)
		if typed != nil && (typed.Code() == pkgerrors.CodeNotFound || typed.Code() == pkgerrors.CodeStateConflict) {
			// Skip users that are missing or already deactivated.
			continue
		}
		return scheduled, err
	}
	return scheduled, nil
}

// ProcessExpiredGracePeriods finalizes every lapsed pending deactivation. The
// process-wide guard turns a concurrent invocation into a skip: overlapping
// runs are suppressed, not queued, and the suppressed work waits for the next
// tick.
func (s *service) ProcessExpiredGracePeriods(ctx context.Context) (SweepResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		if s.logg != nil {
			s.logg.Info(ctx, "lifecycle.sweep.skipped")
		}
		return SweepResult{Skipped: true}, nil
	}
	defer s.running.Store(false)

	now := s.now().UTC()
	expired, err := s.repo.FindExpiredPending(ctx, now)
	if err != nil {
		return SweepResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find expired grace periods")
	}

	processed := 0
	var errs []error
	for i := range expired {
		user := &expired[i]
		if err := s.repo.Deactivate(ctx, user.ID, now); err != nil {
			errs = append(errs, fmt.Errorf("deactivate user %s: %w", user.ID, err))
			continue
		}
		processed++

		s.sendMail(ctx, user.Email, "Your account has been disabled",
			fmt.Sprintf("<p>Hi %s,</p><p>Your account has been deactivated. You can request reactivation here: <a href=%q>%s</a></p>",
				user.FirstName, s.cfg.ReactivationLink, s.cfg.ReactivationLink))
	}

	if s.logg != nil && processed > 0 {
		s.logg.Info(s.logg.WithField(ctx, "processed", processed), "lifecycle.sweep.complete")
	}
	if combined := multierr.Combine(errs...); combined != nil {
		return SweepResult{Processed: processed}, pkgerrors.Wrap(pkgerrors.CodeInternal, combined, "deactivate expired users")
	}
	return SweepResult{Processed: processed}, nil
}

// ReactivateUser clears the deactivation flags and emails a confirmation. The
// 24-hour floor since deactivated_at is NOT checked here; the admin endpoint
// enforces it via ReactivationAllowed before calling in.
func (s *service) ReactivateUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	if err := s.repo.Reactivate(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reactivate user")
	}

	s.sendMail(ctx, user.Email, "Your account is active again",
		fmt.Sprintf("<p>Hi %s,</p><p>Your account has been reactivated. Welcome back.</p>", user.FirstName))
	return nil
}

// SoftDelete deactivates immediately, the direct Active -> Deactivated path.
func (s *service) SoftDelete(ctx context.Context, userID uuid.UUID) error {
	affected, err := s.repo.SoftDelete(ctx, userID, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "soft delete user")
	}
	if affected == 0 {
		if _, err := s.repo.FindByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "user already deactivated")
	}
	return nil
}

func (s *service) ListInactive(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListInactive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inactive users")
	}
	return users, nil
}

// sendMail delivers fire-and-forget: failures are logged, never propagated.
func (s *service) sendMail(ctx context.Context, to, subject, html string) {
	if err := s.mailer.Send(ctx, to, subject, html); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithField(ctx, "recipient", to), "lifecycle.email.failed", err)
	}
}

// ReactivationAllowed is the single source of truth for the reactivation
// floor: an admin endpoint may only honor a reactivation once the floor has
// elapsed since deactivated_at. A user who was never deactivated passes.
func ReactivationAllowed(deactivatedAt *time.Time, floor time.Duration, now time.Time) bool {
	if deactivatedAt == nil {
		return true
	}
	return now.Sub(*deactivatedAt) >= floor
}

package forum

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodpath/moodpath-backend/pkg/db"
	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/enums"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
)

const dayFormat = "2006-01-02"

// Service defines the behavior needed by the forum controllers.
type Service interface {
	TodaysPrompt(ctx context.Context) (*PromptDTO, error)
	CreatePrompt(ctx context.Context, req CreatePromptRequest) (*PromptDTO, error)
	ListPrompts(ctx context.Context) ([]PromptDTO, error)
	DeletePrompt(ctx context.Context, id uuid.UUID) error
	CreateComment(ctx context.Context, userID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error)
	ListComments(ctx context.Context, promptID uuid.UUID) ([]CommentDTO, error)
	DeleteComment(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, commentID uuid.UUID) error
}

type repository interface {
	CreatePrompt(ctx context.Context, prompt *models.Prompt) error
	FindPromptByID(ctx context.Context, id uuid.UUID) (*models.Prompt, error)
	FindPromptForDay(ctx context.Context, day string) (*models.Prompt, error)
	FindRandomUnusedPrompt(ctx context.Context) (*models.Prompt, error)
	ClaimPrompt(ctx context.Context, id uuid.UUID, day string) (bool, error)
	ListPrompts(ctx context.Context) ([]models.Prompt, error)
	DeletePromptIfUnused(ctx context.Context, id uuid.UUID) (int64, error)
	CreateComment(ctx context.Context, comment *models.ForumComment) error
	ListComments(ctx context.Context, promptID uuid.UUID) ([]models.ForumComment, error)
	FindCommentByID(ctx context.Context, id uuid.UUID) (*models.ForumComment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) (int64, error)
}

type service struct {
	repo      repository
	profanity *ProfanityFilter
	now       func() time.Time
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo      repository
	Profanity *ProfanityFilter
	Now       func() time.Time
}

// NewService constructs a forum service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("forum repository is required")
	}
	profanity := params.Profanity
	if profanity == nil {
		profanity = NewProfanityFilter()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, profanity: profanity, now: now}, nil
}

// TodaysPrompt returns the prompt selected for the current UTC day, claiming a
// random unused one if today has none yet.
func (s *service) TodaysPrompt(ctx context.Context) (*PromptDTO, error) {
	day := s.now().UTC().Format(dayFormat)

	prompt, err := s.repo.FindPromptForDay(ctx, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load today's prompt")
	}
	if prompt != nil {
		dto := promptFromModel(prompt)
		return &dto, nil
	}

	// Retry a few times: a racing selector may claim the candidate first,
	// in which case either today's prompt now exists or another unused
	// candidate does.
	for attempt := 0; attempt < 3; attempt++ {
		candidate, err := s.repo.FindRandomUnusedPrompt(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "pick prompt")
		}
		if candidate == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no prompts available")
		}

		claimed, err := s.repo.ClaimPrompt(ctx, candidate.ID, day)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "claim prompt")
		}
		if claimed {
			candidate.IsUsed = true
			candidate.UsedOn = &day
			dto := promptFromModel(candidate)
			return &dto, nil
		}

		if prompt, err = s.repo.FindPromptForDay(ctx, day); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load today's prompt")
		}
		if prompt != nil {
			dto := promptFromModel(prompt)
			return &dto, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not select today's prompt")
}

func (s *service) CreatePrompt(ctx context.Context, req CreatePromptRequest) (*PromptDTO, error) {
	prompt := &models.Prompt{Question: strings.TrimSpace(req.Question)}
	if err := s.repo.CreatePrompt(ctx, prompt); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "prompt already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create prompt")
	}
	dto := promptFromModel(prompt)
	return &dto, nil
}

func (s *service) ListPrompts(ctx context.Context) ([]PromptDTO, error) {
	prompts, err := s.repo.ListPrompts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list prompts")
	}
	out := make([]PromptDTO, 0, len(prompts))
	for i := range prompts {
		out = append(out, promptFromModel(&prompts[i]))
	}
	return out, nil
}

func (s *service) DeletePrompt(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.DeletePromptIfUnused(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete prompt")
	}
	if affected > 0 {
		return nil
	}

	if _, err := s.repo.FindPromptByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "prompt not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load prompt")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "prompt already used")
}

func (s *service) CreateComment(ctx context.Context, userID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	if s.profanity.ContainsProfanity(req.Body) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment contains inappropriate language")
	}

	if _, err := s.repo.FindPromptByID(ctx, req.PromptID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "prompt not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load prompt")
	}

	comment := &models.ForumComment{
		PromptID: req.PromptID,
		UserID:   userID,
		Body:     req.Body,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create comment")
	}
	dto := commentFromModel(comment)
	return &dto, nil
}

func (s *service) ListComments(ctx context.Context, promptID uuid.UUID) ([]CommentDTO, error) {
	comments, err := s.repo.ListComments(ctx, promptID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list comments")
	}
	out := make([]CommentDTO, 0, len(comments))
	for i := range comments {
		out = append(out, commentFromModel(&comments[i]))
	}
	return out, nil
}

// DeleteComment removes a comment owned by the actor; admins may remove any.
func (s *service) DeleteComment(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, commentID uuid.UUID) error {
	comment, err := s.repo.FindCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "comment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load comment")
	}

	if comment.UserID != actorID && actorRole != enums.RoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot delete another user's comment")
	}

	if _, err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete comment")
	}
	return nil
}

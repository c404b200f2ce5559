package journals

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
	"github.com/moodpath/moodpath-backend/pkg/pagination"
)

// Service defines the behavior needed by the journal controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateJournalRequest) (*JournalDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*JournalDTO, error)
	List(ctx context.Context, userID uuid.UUID, page pagination.Params) (*ListJournalsResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateJournalRequest) (*JournalDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type repository interface {
	Create(ctx context.Context, journal *models.Journal) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Journal, error)
	List(ctx context.Context, params listParams) ([]models.Journal, *pagination.Cursor, error)
	Update(ctx context.Context, userID, id uuid.UUID, columns map[string]any) (int64, error)
	SoftDelete(ctx context.Context, userID, id uuid.UUID) (int64, error)
	Exists(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

type service struct {
	repo repository
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo repository
}

// NewService constructs a journal service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("journal repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateJournalRequest) (*JournalDTO, error) {
	journal := &models.Journal{
		UserID:    userID,
		Title:     req.Title,
		Body:      req.Body,
		ImageURLs: req.ImageURLs,
	}
	if err := s.repo.Create(ctx, journal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create journal")
	}
	dto := FromModel(journal)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*JournalDTO, error) {
	journal, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "journal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load journal")
	}
	dto := FromModel(journal)
	return &dto, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, page pagination.Params) (*ListJournalsResponse, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	journals, next, err := s.repo.List(ctx, listParams{UserID: userID, Limit: page.Limit, Cursor: cursor})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list journals")
	}

	resp := &ListJournalsResponse{Journals: make([]JournalDTO, 0, len(journals))}
	for i := range journals {
		resp.Journals = append(resp.Journals, FromModel(&journals[i]))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		resp.NextCursor = &encoded
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateJournalRequest) (*JournalDTO, error) {
	columns := map[string]any{}
	if req.Title != nil {
		columns["title"] = *req.Title
	}
	if req.Body != nil {
		columns["body"] = *req.Body
	}
	if req.ImageURLs != nil {
		columns["image_urls"] = datatypes.JSONSlice[string](*req.ImageURLs)
	}
	if len(columns) == 0 {
		return s.Get(ctx, userID, id)
	}

	affected, err := s.repo.Update(ctx, userID, id, columns)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update journal")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "journal not found")
	}
	return s.Get(ctx, userID, id)
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	affected, err := s.repo.SoftDelete(ctx, userID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete journal")
	}
	if affected > 0 {
		return nil
	}

	// Zero rows means either the entry never existed or it is already
	// soft-deleted; only the former is a not-found.
	exists, err := s.repo.Exists(ctx, userID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check journal")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "journal not found")
	}
	return nil
}

package journals

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
	"github.com/moodpath/moodpath-backend/pkg/pagination"
)

type fakeRepo struct {
	stored        map[uuid.UUID]*models.Journal
	softDeleted   map[uuid.UUID]bool
	updateColumns map[string]any
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		stored:      map[uuid.UUID]*models.Journal{},
		softDeleted: map[uuid.UUID]bool{},
	}
}

func (f *fakeRepo) Create(_ context.Context, journal *models.Journal) error {
	journal.ID = uuid.New()
	f.stored[journal.ID] = journal
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*models.Journal, error) {
	journal, ok := f.stored[id]
	if !ok || journal.UserID != userID || f.softDeleted[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return journal, nil
}

func (f *fakeRepo) List(_ context.Context, params listParams) ([]models.Journal, *pagination.Cursor, error) {
	out := []models.Journal{}
	for id, journal := range f.stored {
		if journal.UserID == params.UserID && !f.softDeleted[id] {
			out = append(out, *journal)
		}
	}
	return out, nil, nil
}

func (f *fakeRepo) Update(_ context.Context, userID, id uuid.UUID, columns map[string]any) (int64, error) {
	f.updateColumns = columns
	journal, ok := f.stored[id]
	if !ok || journal.UserID != userID || f.softDeleted[id] {
		return 0, nil
	}
	if title, ok := columns["title"].(string); ok {
		journal.Title = title
	}
	if body, ok := columns["body"].(string); ok {
		journal.Body = body
	}
	return 1, nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, userID, id uuid.UUID) (int64, error) {
	journal, ok := f.stored[id]
	if !ok || journal.UserID != userID || f.softDeleted[id] {
		return 0, nil
	}
	f.softDeleted[id] = true
	return 1, nil
}

func (f *fakeRepo) Exists(_ context.Context, userID, id uuid.UUID) (bool, error) {
	journal, ok := f.stored[id]
	return ok && journal.UserID == userID, nil
}

func buildService(t *testing.T, repo *fakeRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestGetRejectsForeignJournal(t *testing.T) {
	repo := newFakeRepo()
	svc := buildService(t, repo)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateJournalRequest{Title: "monday", Body: "rough day"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(context.Background(), uuid.New(), created.ID); err == nil {
		t.Fatal("expected not found for another user's journal")
	} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestUpdateWithNoFieldsReturnsCurrent(t *testing.T) {
	repo := newFakeRepo()
	svc := buildService(t, repo)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateJournalRequest{Title: "monday", Body: "rough day"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Update(context.Background(), owner, created.ID, UpdateJournalRequest{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "monday" {
		t.Fatalf("expected unchanged title, got %q", got.Title)
	}
	if repo.updateColumns != nil {
		t.Fatal("expected no update query for an empty request")
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo := newFakeRepo()
	svc := buildService(t, repo)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateJournalRequest{Title: "monday", Body: "rough day"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "tuesday"
	got, err := svc.Update(context.Background(), owner, created.ID, UpdateJournalRequest{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "tuesday" || got.Body != "rough day" {
		t.Fatalf("unexpected journal after update: %+v", got)
	}
	if _, ok := repo.updateColumns["body"]; ok {
		t.Fatal("body column should not be touched")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := buildService(t, repo)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateJournalRequest{Title: "monday", Body: "rough day"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestDeleteUnknownJournalIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := buildService(t, repo)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

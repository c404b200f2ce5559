package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/moodpath/moodpath-backend/internal/forum"
	"github.com/moodpath/moodpath-backend/pkg/enums"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
)

type testForumService struct {
	todaysFn        func(ctx context.Context) (*forum.PromptDTO, error)
	createCommentFn func(ctx context.Context, userID uuid.UUID, req forum.CreateCommentRequest) (*forum.CommentDTO, error)
	deleteCommentFn func(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, commentID uuid.UUID) error
}

func (s *testForumService) TodaysPrompt(ctx context.Context) (*forum.PromptDTO, error) {
	if s.todaysFn != nil {
		return s.todaysFn(ctx)
	}
	return &forum.PromptDTO{ID: uuid.New(), Question: "What made you smile today?"}, nil
}

func (s *testForumService) CreatePrompt(context.Context, forum.CreatePromptRequest) (*forum.PromptDTO, error) {
	return nil, nil
}

func (s *testForumService) ListPrompts(context.Context) ([]forum.PromptDTO, error) {
	return nil, nil
}

func (s *testForumService) DeletePrompt(context.Context, uuid.UUID) error {
	return nil
}

func (s *testForumService) CreateComment(ctx context.Context, userID uuid.UUID, req forum.CreateCommentRequest) (*forum.CommentDTO, error) {
	if s.createCommentFn != nil {
		return s.createCommentFn(ctx, userID, req)
	}
	return nil, nil
}

func (s *testForumService) ListComments(context.Context, uuid.UUID) ([]forum.CommentDTO, error) {
	return nil, nil
}

func (s *testForumService) DeleteComment(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, commentID uuid.UUID) error {
	if s.deleteCommentFn != nil {
		return s.deleteCommentFn(ctx, actorID, actorRole, commentID)
	}
	return nil
}

func TestTodaysPromptReturnsPrompt(t *testing.T) {
	req := authedRequest(http.MethodGet, "/api/v1/forum/todays-prompt", "", uuid.New(), "user")
	resp := httptest.NewRecorder()
	TodaysPrompt(&testForumService{}, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestTodaysPromptEmptyPool(t *testing.T) {
	svc := &testForumService{
		todaysFn: func(context.Context) (*forum.PromptDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no prompts available")
		},
	}
	req := authedRequest(http.MethodGet, "/api/v1/forum/todays-prompt", "", uuid.New(), "user")
	resp := httptest.NewRecorder()
	TodaysPrompt(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCreateForumCommentProfanityRejected(t *testing.T) {
	svc := &testForumService{
		createCommentFn: func(context.Context, uuid.UUID, forum.CreateCommentRequest) (*forum.CommentDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment contains inappropriate language")
		},
	}

	body := fmt.Sprintf(`{"prompt_id":%q,"body":"something rude"}`, uuid.NewString())
	req := authedRequest(http.MethodPost, "/api/v1/forum/comments", body, uuid.New(), "user")
	resp := httptest.NewRecorder()
	CreateForumComment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestDeleteForumCommentPassesRole(t *testing.T) {
	commentID := uuid.New()
	actorID := uuid.New()
	svc := &testForumService{
		deleteCommentFn: func(_ context.Context, aid uuid.UUID, role enums.Role, cid uuid.UUID) error {
			if aid != actorID || cid != commentID {
				t.Fatalf("unexpected ids %s %s", aid, cid)
			}
			if role != enums.RoleAdmin {
				t.Fatalf("expected admin role, got %s", role)
			}
			return nil
		},
	}

	req := authedRequest(http.MethodDelete, "/api/v1/forum/comments/"+commentID.String(), "", actorID, "admin")
	req = addRouteParam(req, "commentId", commentID.String())
	resp := httptest.NewRecorder()
	DeleteForumComment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moodpath/moodpath-backend/api/middleware"
	"github.com/moodpath/moodpath-backend/internal/moodlogs"
	"github.com/moodpath/moodpath-backend/internal/prediction"
	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/enums"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
	"github.com/moodpath/moodpath-backend/pkg/logger"
	"github.com/moodpath/moodpath-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func authedRequest(method, target, body string, userID uuid.UUID, role string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithRole(ctx, role)
	return req.WithContext(ctx)
}

type testMoodLogService struct {
	createFn func(ctx context.Context, userID uuid.UUID, req moodlogs.CreateMoodLogRequest) (*moodlogs.MoodLogDTO, error)
	listFn   func(ctx context.Context, userID uuid.UUID, fromDay, toDay string, page pagination.Params) (*moodlogs.ListMoodLogsResponse, error)
}

func (s *testMoodLogService) Create(ctx context.Context, userID uuid.UUID, req moodlogs.CreateMoodLogRequest) (*moodlogs.MoodLogDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, userID, req)
	}
	return nil, nil
}

func (s *testMoodLogService) List(ctx context.Context, userID uuid.UUID, fromDay, toDay string, page pagination.Params) (*moodlogs.ListMoodLogsResponse, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, fromDay, toDay, page)
	}
	return nil, nil
}

func TestCreateMoodLogSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &testMoodLogService{
		createFn: func(_ context.Context, uid uuid.UUID, req moodlogs.CreateMoodLogRequest) (*moodlogs.MoodLogDTO, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			if req.Mood != "Happy" {
				t.Fatalf("unexpected mood %s", req.Mood)
			}
			return &moodlogs.MoodLogDTO{ID: uuid.New(), Mood: enums.MoodHappy}, nil
		},
	}

	body := `{"mood":"Happy","sleep_quality":"Good","activities":["gaming"]}`
	req := authedRequest(http.MethodPost, "/api/v1/mood-logs", body, userID, "user")
	resp := httptest.NewRecorder()
	CreateMoodLog(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateMoodLogSameDayConflict(t *testing.T) {
	svc := &testMoodLogService{
		createFn: func(context.Context, uuid.UUID, moodlogs.CreateMoodLogRequest) (*moodlogs.MoodLogDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "mood already logged today")
		},
	}

	body := `{"mood":"Happy","sleep_quality":"Good"}`
	req := authedRequest(http.MethodPost, "/api/v1/mood-logs", body, uuid.New(), "user")
	resp := httptest.NewRecorder()
	CreateMoodLog(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Message != "mood already logged today" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestCreateMoodLogRequiresAuthContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mood-logs", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	CreateMoodLog(&testMoodLogService{}, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestListMoodLogsPassesFilters(t *testing.T) {
	userID := uuid.New()
	svc := &testMoodLogService{
		listFn: func(_ context.Context, _ uuid.UUID, fromDay, toDay string, page pagination.Params) (*moodlogs.ListMoodLogsResponse, error) {
			if fromDay != "2026-03-01" || toDay != "2026-03-15" {
				t.Fatalf("unexpected range %s..%s", fromDay, toDay)
			}
			if page.Limit != 10 {
				t.Fatalf("unexpected limit %d", page.Limit)
			}
			return &moodlogs.ListMoodLogsResponse{}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/mood-logs?from=2026-03-01&to=2026-03-15&limit=10", "", userID, "user")
	resp := httptest.NewRecorder()
	ListMoodLogs(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestListMoodLogsRejectsBadDay(t *testing.T) {
	req := authedRequest(http.MethodGet, "/api/v1/mood-logs?from=March-1", "", uuid.New(), "user")
	resp := httptest.NewRecorder()
	ListMoodLogs(&testMoodLogService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

type testRangeReader struct {
	logs []models.MoodLog
	err  error
}

func (r *testRangeReader) ListRange(context.Context, uuid.UUID, string, string) ([]models.MoodLog, error) {
	return r.logs, r.err
}

type testPredictor struct {
	out *prediction.Output
	err error
	got []models.MoodLog
}

func (p *testPredictor) Predict(_ context.Context, logs []models.MoodLog) (*prediction.Output, error) {
	p.got = logs
	return p.out, p.err
}

func TestMoodInsightsRelaysPrediction(t *testing.T) {
	reader := &testRangeReader{logs: []models.MoodLog{{ID: uuid.New(), Mood: enums.MoodHappy}}}
	predictor := &testPredictor{out: &prediction.Output{Insights: []string{"keep it up"}}}

	req := authedRequest(http.MethodGet, "/api/v1/mood-logs/insights", "", uuid.New(), "user")
	resp := httptest.NewRecorder()
	MoodInsights(reader, predictor, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(predictor.got) != 1 {
		t.Fatalf("expected logs handed to predictor, got %d", len(predictor.got))
	}
}

func TestMoodInsightsNoLogs(t *testing.T) {
	req := authedRequest(http.MethodGet, "/api/v1/mood-logs/insights", "", uuid.New(), "user")
	resp := httptest.NewRecorder()
	MoodInsights(&testRangeReader{}, &testPredictor{}, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestMoodInsightsDependencyFailure(t *testing.T) {
	reader := &testRangeReader{logs: []models.MoodLog{{ID: uuid.New()}}}
	predictor := &testPredictor{err: pkgerrors.New(pkgerrors.CodeDependency, "prediction process failed")}

	req := authedRequest(http.MethodGet, "/api/v1/mood-logs/insights", "", uuid.New(), "user")
	resp := httptest.NewRecorder()
	MoodInsights(reader, predictor, testLogger())(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

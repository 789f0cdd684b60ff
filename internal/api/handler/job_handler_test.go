package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/reelwatch/release-notifier/internal/api/handler"
	"github.com/reelwatch/release-notifier/internal/dispatch"
	"github.com/reelwatch/release-notifier/internal/domain"
	"github.com/reelwatch/release-notifier/internal/job"
	"github.com/reelwatch/release-notifier/internal/mailer"
	"github.com/reelwatch/release-notifier/internal/metrics"
	"github.com/reelwatch/release-notifier/internal/ratelimiter"
	"github.com/reelwatch/release-notifier/internal/release"
	"github.com/reelwatch/release-notifier/internal/repository"
	"github.com/reelwatch/release-notifier/internal/store"
)

const secret = "cron-secret"

func newJobHandler(t *testing.T, mockStore *store.MockRecordStore) *handler.JobHandler {
	t.Helper()

	logger := zap.NewNop()
	clock := func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	matcher, err := release.NewDateMatcher("UTC", clock)
	if err != nil {
		t.Fatalf("matcher: %v", err)
	}

	dispatcher := dispatch.NewDispatcher(
		mailer.NewMockMailer(), ratelimiter.New(1000), "https://img.example", logger, dispatch.MetricHooks{})

	j := job.New(
		secret, matcher, mockStore,
		release.NewUserResolver(mockStore, logger),
		release.NewAggregator(logger),
		dispatcher,
		repository.NewMockDispatchLogRepository(),
		false,
		logger,
	)

	m := metrics.New(prometheus.NewRegistry())
	return handler.NewJobHandler(j, m, logger)
}

func TestJobHandler_Trigger_Unauthorized(t *testing.T) {
	h := newJobHandler(t, store.NewMockRecordStore())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/release-check", nil)
	req.Header.Set("X-Cron-Secret", "wrong")
	rec := httptest.NewRecorder()

	h.Trigger(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJobHandler_Trigger_Success(t *testing.T) {
	mockStore := store.NewMockRecordStore()
	mockStore.AddUser(store.User{ID: "u1", Email: "a@example.com"})
	mockStore.AddFollow(domain.FollowRecord{
		ID: "r1", MovieID: "m1", Title: "Movie m1", ReleaseDate: "2026-03-14", UserID: "u1",
	})
	h := newJobHandler(t, mockStore)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/release-check", nil)
	req.Header.Set("X-Cron-Secret", secret)
	rec := httptest.NewRecorder()

	h.Trigger(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Success   bool `json:"success"`
		TaskCount int  `json:"task_count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || body.TaskCount != 1 {
		t.Fatalf("expected success with task_count=1, got %+v", body)
	}
}

func TestJobHandler_Trigger_SecretViaQueryParam(t *testing.T) {
	h := newJobHandler(t, store.NewMockRecordStore())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/release-check?secret="+secret, nil)
	rec := httptest.NewRecorder()

	h.Trigger(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestJobHandler_LastRun(t *testing.T) {
	h := newJobHandler(t, store.NewMockRecordStore())

	// Before any run the snapshot is null.
	rec := httptest.NewRecorder()
	h.LastRun(rec, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil))

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["last_run"] != nil {
		t.Fatalf("expected null last_run, got %v", body["last_run"])
	}

	// Trigger once, then the snapshot is populated.
	trig := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/release-check", nil)
	trig.Header.Set("X-Cron-Secret", secret)
	h.Trigger(httptest.NewRecorder(), trig)

	rec = httptest.NewRecorder()
	h.LastRun(rec, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil))
	body = nil
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["last_run"] == nil {
		t.Fatal("expected last_run to be populated after a trigger")
	}
}

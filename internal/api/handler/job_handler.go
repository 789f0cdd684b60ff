package handler

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	apimw "github.com/reelwatch/release-notifier/internal/api/middleware"
	"github.com/reelwatch/release-notifier/internal/domain"
	"github.com/reelwatch/release-notifier/internal/job"
	"github.com/reelwatch/release-notifier/internal/metrics"
)

// JobHandler exposes the release-check trigger endpoint and a JSON snapshot
// of the most recent run.
type JobHandler struct {
	job     *job.Job
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu      sync.RWMutex
	lastRun *job.Result
}

func NewJobHandler(j *job.Job, m *metrics.Metrics, logger *zap.Logger) *JobHandler {
	return &JobHandler{job: j, metrics: m, logger: logger}
}

// Trigger handles POST /api/v1/jobs/release-check
//
// The caller supplies the shared secret in the X-Cron-Secret header (or the
// "secret" query parameter for cron services that cannot set headers).
// Responses: 401 on mismatch, 500 when the due-records query fails, 200
// with {success, task_count} otherwise. Individual send failures are
// absorbed by the job and do not affect the response.
func (h *JobHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Cron-Secret")
	if token == "" {
		token = r.URL.Query().Get("secret")
	}

	start := time.Now()
	result, err := h.job.Run(r.Context(), token)
	if err != nil {
		h.logger.Warn("release check failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		h.metrics.ObserveRun(runState(err), 0, 0, time.Since(start))
		mapError(w, err)
		return
	}

	h.metrics.ObserveRun("completed", result.TaskCount, result.Skipped, time.Since(start))

	h.mu.Lock()
	h.lastRun = result
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"task_count": result.TaskCount,
	})
}

// LastRun handles GET /api/v1/metrics
//
// Returns the per-outcome breakdown of the most recent completed run.
// Raw Prometheus metrics (counters, histograms) are available at /metrics
// via promhttp.Handler and are separate from this endpoint.
func (h *JobHandler) LastRun(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	last := h.lastRun
	h.mu.RUnlock()

	if last == nil {
		respondJSON(w, http.StatusOK, map[string]any{"last_run": nil})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"last_run": last})
}

func runState(err error) string {
	switch {
	case err == nil:
		return "completed"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "failed"
	}
}

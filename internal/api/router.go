package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/reelwatch/release-notifier/internal/api/handler"
	apimw "github.com/reelwatch/release-notifier/internal/api/middleware"
	"github.com/reelwatch/release-notifier/internal/job"
	"github.com/reelwatch/release-notifier/internal/metrics"
	"github.com/reelwatch/release-notifier/internal/store"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(
	j *job.Job,
	s store.RecordStore,
	m *metrics.Metrics,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)          // recover panics, return 500
	r.Use(chimw.RealIP)             // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1<<20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)      // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	jh := handler.NewJobHandler(j, m, logger)
	fh := handler.NewFollowHandler(s, logger)
	mh := handler.NewMovieHandler(s, logger)
	hh := handler.NewHealthHandler()

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint (for Prometheus server / Grafana)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		// Cron trigger: one release check per call.
		r.Post("/jobs/release-check", jh.Trigger)

		// Follow toggles used by the UI buttons.
		r.Post("/follows", fh.Create)
		r.Delete("/follows/{movieID}", fh.Delete)

		// Paginated catalog listing.
		r.Get("/movies", mh.List)

		// JSON snapshot of the most recent run
		r.Get("/metrics", jh.LastRun)
	})

	return r
}

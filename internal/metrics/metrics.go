package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	NotificationsSent    prometheus.Counter
	NotificationsSkipped prometheus.Counter
	NotificationsFailed  prometheus.Counter
	SendLatency          prometheus.Histogram

	JobRuns     *prometheus.CounterVec
	JobDuration prometheus.Histogram
	DueRecords  prometheus.Gauge
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "release_notifications_sent_total",
			Help: "Total number of release notifications delivered to the mail provider.",
		}),
		NotificationsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "release_notifications_skipped_total",
			Help: "Total number of tasks skipped (no recipient or already sent today).",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "release_notifications_failed_total",
			Help: "Total number of notification sends that failed.",
		}),
		SendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "release_notification_send_seconds",
			Help:    "Latency of a single notification send, dispatch to provider ack.",
			Buckets: prometheus.DefBuckets,
		}),

		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "release_check_runs_total",
			Help: "Total release-check runs by terminal state.",
		}, []string{"state"}),
		JobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "release_check_duration_seconds",
			Help:    "Wall-clock duration of one release-check run.",
			Buckets: prometheus.DefBuckets,
		}),
		DueRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "release_check_due_tasks",
			Help: "Notification tasks attempted by the most recent run.",
		}),
	}

	reg.MustRegister(
		m.NotificationsSent,
		m.NotificationsSkipped,
		m.NotificationsFailed,
		m.SendLatency,
		m.JobRuns,
		m.JobDuration,
		m.DueRecords,
	)

	return m
}

// DispatchHooks returns the metric callbacks expected by dispatch.MetricHooks.
// Centralises the prometheus observation calls so the dispatcher stays
// metrics-agnostic.
func (m *Metrics) DispatchHooks() (onSent func(time.Duration), onFailed func()) {
	onSent = func(latency time.Duration) {
		m.NotificationsSent.Inc()
		m.SendLatency.Observe(latency.Seconds())
	}
	onFailed = func() {
		m.NotificationsFailed.Inc()
	}
	return
}

// ObserveRun records the terminal state and duration of one job run.
func (m *Metrics) ObserveRun(state string, taskCount, skipped int, elapsed time.Duration) {
	m.JobRuns.WithLabelValues(state).Inc()
	m.JobDuration.Observe(elapsed.Seconds())
	m.DueRecords.Set(float64(taskCount))
	if skipped > 0 {
		m.NotificationsSkipped.Add(float64(skipped))
	}
}

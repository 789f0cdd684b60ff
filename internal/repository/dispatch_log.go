package repository

import (
	"context"

	"github.com/reelwatch/release-notifier/internal/domain"
)

// DispatchLogRepository persists one row per attempted notification task.
// The log is observational: the job writes every terminal outcome for
// post-hoc visibility, and reads it only for the opt-in duplicate-send
// check. The pgx implementation is in pg_dispatch_log.go.
// Tests use a hand-written mock (mock_dispatch_log.go).
type DispatchLogRepository interface {
	// RecordOutcomes appends the outcomes of one job run under its run date.
	RecordOutcomes(ctx context.Context, runDate string, outcomes []domain.DispatchOutcome) error

	// WasSent reports whether a Sent row already exists for the
	// (run date, movie, recipient) triple.
	WasSent(ctx context.Context, runDate, movieID, recipient string) (bool, error)
}

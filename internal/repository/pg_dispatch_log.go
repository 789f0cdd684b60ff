package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelwatch/release-notifier/internal/domain"
)

type pgDispatchLogRepository struct {
	pool *pgxpool.Pool
}

// NewPgDispatchLogRepository returns a DispatchLogRepository backed by PostgreSQL.
func NewPgDispatchLogRepository(pool *pgxpool.Pool) DispatchLogRepository {
	return &pgDispatchLogRepository{pool: pool}
}

func (r *pgDispatchLogRepository) RecordOutcomes(ctx context.Context, runDate string, outcomes []domain.DispatchOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	// One batch round-trip per run; a run's outcomes are small (one per due
	// follow record).
	batch := &pgx.Batch{}
	now := time.Now().UTC()
	for _, o := range outcomes {
		batch.Queue(`
			INSERT INTO dispatch_log
				(id, run_date, movie_id, title, recipient, outcome, reason, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			uuid.New().String(), runDate,
			o.Task.MovieID, o.Task.Title, o.Task.RecipientEmail,
			string(o.Outcome), o.Reason, now,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range outcomes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert dispatch log row: %w", err)
		}
	}
	return nil
}

func (r *pgDispatchLogRepository) WasSent(ctx context.Context, runDate, movieID, recipient string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM dispatch_log
			WHERE run_date = $1 AND movie_id = $2 AND recipient = $3 AND outcome = 'sent'
		)`, runDate, movieID, recipient).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check sent marker: %w", err)
	}
	return exists, nil
}

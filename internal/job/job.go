package job

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/reelwatch/release-notifier/internal/dispatch"
	"github.com/reelwatch/release-notifier/internal/domain"
	"github.com/reelwatch/release-notifier/internal/release"
	"github.com/reelwatch/release-notifier/internal/repository"
	"github.com/reelwatch/release-notifier/internal/store"
)

// Result is the aggregate outcome of one release-check run.
//
// TaskCount is the number of notification tasks attempted, which is what
// the trigger caller sees. The per-outcome counts and the outcome list are
// richer than the caller contract; they feed the dispatch log and metrics.
type Result struct {
	RunDate   string                   `json:"run_date"`
	TaskCount int                      `json:"task_count"`
	Sent      int                      `json:"sent"`
	Skipped   int                      `json:"skipped"`
	Failed    int                      `json:"failed"`
	Outcomes  []domain.DispatchOutcome `json:"-"`
}

// Job is the release-check orchestrator: authorize, fetch due records,
// resolve users, aggregate tasks, dispatch, report.
//
// Only authorization failure and the due-records query abort a run. User
// resolution and dispatch absorb their own failures per unit of work.
type Job struct {
	secret      string
	matcher     *release.DateMatcher
	store       store.RecordStore
	resolver    *release.UserResolver
	aggregator  *release.Aggregator
	dispatcher  *dispatch.Dispatcher
	dispatchLog repository.DispatchLogRepository
	dedupeSends bool
	logger      *zap.Logger
}

func New(
	secret string,
	matcher *release.DateMatcher,
	s store.RecordStore,
	resolver *release.UserResolver,
	aggregator *release.Aggregator,
	dispatcher *dispatch.Dispatcher,
	dispatchLog repository.DispatchLogRepository,
	dedupeSends bool,
	logger *zap.Logger,
) *Job {
	return &Job{
		secret:      secret,
		matcher:     matcher,
		store:       s,
		resolver:    resolver,
		aggregator:  aggregator,
		dispatcher:  dispatcher,
		dispatchLog: dispatchLog,
		dedupeSends: dedupeSends,
		logger:      logger,
	}
}

// Run executes one release check. The token is compared to the configured
// secret by plain equality before anything else happens; on mismatch no
// store query is issued.
func (j *Job) Run(ctx context.Context, token string) (*Result, error) {
	if token != j.secret {
		return nil, domain.ErrUnauthorized
	}

	today := j.matcher.Today()
	log := j.logger.With(zap.String("run_date", today))

	records, err := j.store.ListFollows(ctx, j.matcher.DuePredicate())
	if err != nil {
		return nil, fmt.Errorf("query due releases: %w", err)
	}
	log.Info("due follow records fetched", zap.Int("count", len(records)))

	emails := j.resolver.Resolve(ctx, records)
	tasks := j.aggregator.Build(records, emails)

	pending, skipped := j.filterAlreadySent(ctx, today, tasks)

	outcomes := j.dispatcher.Dispatch(ctx, pending)
	outcomes = append(outcomes, skipped...)

	result := &Result{
		RunDate:   today,
		TaskCount: len(tasks),
		Outcomes:  outcomes,
	}
	for _, o := range outcomes {
		switch o.Outcome {
		case domain.OutcomeSent:
			result.Sent++
		case domain.OutcomeSkipped:
			result.Skipped++
		case domain.OutcomeFailed:
			result.Failed++
		}
	}

	// The log is observational; a write failure must not turn a completed
	// run into a failed one.
	if err := j.dispatchLog.RecordOutcomes(ctx, today, outcomes); err != nil {
		log.Error("failed to record dispatch outcomes", zap.Error(err))
	}

	log.Info("release check completed",
		zap.Int("tasks", result.TaskCount),
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// filterAlreadySent splits off tasks whose notification was already logged
// as sent today. With dedupe disabled (the default) every task is dispatched
// and repeated triggers on the same day re-send: at-least-once, as the
// trigger contract promises.
func (j *Job) filterAlreadySent(ctx context.Context, today string, tasks []domain.NotificationTask) (pending []domain.NotificationTask, skipped []domain.DispatchOutcome) {
	if !j.dedupeSends {
		return tasks, nil
	}

	pending = make([]domain.NotificationTask, 0, len(tasks))
	for _, task := range tasks {
		sent, err := j.dispatchLog.WasSent(ctx, today, task.MovieID, task.RecipientEmail)
		if err != nil {
			// Fail open: an unreadable log must not suppress notifications.
			j.logger.Warn("sent-marker check failed, dispatching anyway",
				zap.String("movie_id", task.MovieID), zap.Error(err))
			sent = false
		}
		if sent {
			skipped = append(skipped, domain.DispatchOutcome{
				Task:    task,
				Outcome: domain.OutcomeSkipped,
				Reason:  "already sent today",
			})
			continue
		}
		pending = append(pending, task)
	}
	return pending, skipped
}

package job

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler triggers the release check in-process at a fixed interval, for
// deployments without an external cron hitting the trigger endpoint. It
// self-authorizes with the configured secret, so an enabled scheduler and
// an external cron both firing on the same day re-send notifications unless
// dedupe is enabled.
type Scheduler struct {
	job      *Job
	secret   string
	interval time.Duration
	logger   *zap.Logger
}

func NewScheduler(j *Job, secret string, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{job: j, secret: secret, interval: interval, logger: logger}
}

// Run ticks every interval and executes one release check per tick.
// Stops cleanly when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("release scheduler started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("release scheduler stopping")
			return
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context) {
	result, err := s.job.Run(ctx, s.secret)
	if err != nil {
		s.logger.Error("scheduled release check failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled release check completed",
		zap.String("run_date", result.RunDate),
		zap.Int("tasks", result.TaskCount),
	)
}

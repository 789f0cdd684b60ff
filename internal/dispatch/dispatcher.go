package dispatch

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/reelwatch/release-notifier/internal/domain"
	"github.com/reelwatch/release-notifier/internal/mailer"
	"github.com/reelwatch/release-notifier/internal/ratelimiter"
)

// MetricHooks carries the metric callback functions injected by main.
// Using a struct keeps the dispatcher constructor signature clean.
type MetricHooks struct {
	OnSent   func(latency time.Duration)
	OnFailed func()
}

// Dispatcher sends one email per notification task. All tasks of a batch
// run concurrently; each send is isolated, so one recipient's failure never
// aborts the batch or surfaces as an error from Dispatch.
//
// The dispatcher performs no retries. Delivery retry is the mail provider's
// policy; do not assume it happens.
type Dispatcher struct {
	mailer       mailer.Mailer
	limiter      *ratelimiter.SendLimiter
	imageBaseURL string
	logger       *zap.Logger

	onSent   func(time.Duration)
	onFailed func()
}

// NewDispatcher constructs a dispatcher. Hook fields are optional (nil = no-op).
func NewDispatcher(
	m mailer.Mailer,
	limiter *ratelimiter.SendLimiter,
	imageBaseURL string,
	logger *zap.Logger,
	hooks MetricHooks,
) *Dispatcher {
	onSent := hooks.OnSent
	if onSent == nil {
		onSent = func(time.Duration) {}
	}
	onFailed := hooks.OnFailed
	if onFailed == nil {
		onFailed = func() {}
	}
	return &Dispatcher{
		mailer:       m,
		limiter:      limiter,
		imageBaseURL: imageBaseURL,
		logger:       logger,
		onSent:       onSent,
		onFailed:     onFailed,
	}
}

// Dispatch fans out every task concurrently and returns once each has
// reached a terminal outcome. The returned slice is index-aligned with the
// input; no outcome depends on any other task's result.
func (d *Dispatcher) Dispatch(ctx context.Context, tasks []domain.NotificationTask) []domain.DispatchOutcome {
	outcomes := make([]domain.DispatchOutcome, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		// Each goroutine writes only its own index; no locking needed.
		go func(i int, task domain.NotificationTask) {
			defer wg.Done()
			outcomes[i] = d.send(ctx, task)
		}(i, task)
	}
	wg.Wait()

	return outcomes
}

func (d *Dispatcher) send(ctx context.Context, task domain.NotificationTask) domain.DispatchOutcome {
	start := time.Now()
	log := d.logger.With(
		zap.String("movie_id", task.MovieID),
		zap.String("title", task.Title),
		zap.String("recipient", task.RecipientEmail),
	)

	// Block here until the outbound limiter grants a token.
	if err := d.limiter.Wait(ctx); err != nil {
		log.Warn("dispatch cancelled while rate limited", zap.Error(err))
		d.onFailed()
		return domain.DispatchOutcome{Task: task, Outcome: domain.OutcomeFailed, Reason: err.Error()}
	}

	err := d.mailer.Send(ctx, d.compose(task))
	elapsed := time.Since(start)

	if err != nil {
		log.Warn("notification send failed", zap.Error(err))
		d.onFailed()
		return domain.DispatchOutcome{Task: task, Outcome: domain.OutcomeFailed, Reason: err.Error()}
	}

	d.onSent(elapsed)
	log.Info("notification sent", zap.Duration("latency", elapsed))
	return domain.DispatchOutcome{Task: task, Outcome: domain.OutcomeSent}
}

// compose builds the fixed notification structure: a release-day subject and
// an HTML body with the title, release date, and poster image when present.
func (d *Dispatcher) compose(task domain.NotificationTask) mailer.Message {
	title := html.EscapeString(task.Title)

	body := fmt.Sprintf("<h2>%s is released today!</h2><p>Release date: %s</p>",
		title, html.EscapeString(task.ReleaseDate))
	if task.PosterPath != "" {
		body += fmt.Sprintf(`<p><img src=%q alt="%s poster"/></p>`,
			d.imageBaseURL+task.PosterPath, title)
	}
	body += "<p>Enjoy the premiere!</p>"

	return mailer.Message{
		To:       task.RecipientEmail,
		Subject:  fmt.Sprintf("%s is out today", task.Title),
		HTMLBody: body,
	}
}

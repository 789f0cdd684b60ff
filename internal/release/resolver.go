package release

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/reelwatch/release-notifier/internal/domain"
	"github.com/reelwatch/release-notifier/internal/store"
)

// UserResolver maps the users referenced by a batch of follow records to
// their email addresses.
type UserResolver struct {
	store  store.RecordStore
	logger *zap.Logger
}

func NewUserResolver(s store.RecordStore, logger *zap.Logger) *UserResolver {
	return &UserResolver{store: s, logger: logger}
}

// Resolve builds the UserID → email mapping for every distinct user
// referenced by the input records. Each distinct user is looked up exactly
// once, all lookups run concurrently, and a failed or email-less lookup
// yields an explicit empty entry rather than an error: resolution as a
// whole always succeeds.
func (r *UserResolver) Resolve(ctx context.Context, records []domain.FollowRecord) map[domain.UserID]string {
	distinct := make(map[domain.UserID]struct{})
	for _, rec := range records {
		if rec.UserID != "" {
			distinct[rec.UserID] = struct{}{}
		}
	}

	emails := make(map[domain.UserID]string, len(distinct))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for id := range distinct {
		wg.Add(1)
		go func(id domain.UserID) {
			defer wg.Done()

			email := r.lookup(ctx, id)

			// Each key is written by exactly one goroutine; the mutex only
			// guards the map structure itself.
			mu.Lock()
			emails[id] = email
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return emails
}

// lookup fetches one user and returns their email, or "" when the user is
// missing, the fetch fails, or the record has no email field.
func (r *UserResolver) lookup(ctx context.Context, id domain.UserID) string {
	u, err := r.store.GetUser(ctx, id)
	if err != nil {
		r.logger.Warn("user lookup failed",
			zap.String("user_id", string(id)),
			zap.Error(err),
		)
		return ""
	}
	if u.Email == "" {
		r.logger.Warn("user has no email", zap.String("user_id", string(id)))
	}
	return u.Email
}

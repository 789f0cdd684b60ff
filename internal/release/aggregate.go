package release

import (
	"go.uber.org/zap"

	"github.com/reelwatch/release-notifier/internal/domain"
)

// Aggregator joins due follow records with resolved emails into
// notification tasks.
type Aggregator struct {
	logger *zap.Logger
}

func NewAggregator(logger *zap.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Build emits one task per record with a resolvable recipient, preserving
// input order. Records without a user reference or whose user resolved to
// no email are dropped and logged; dropping is not an error.
func (a *Aggregator) Build(records []domain.FollowRecord, emails map[domain.UserID]string) []domain.NotificationTask {
	tasks := make([]domain.NotificationTask, 0, len(records))
	for _, rec := range records {
		email := ""
		if rec.UserID != "" {
			email = emails[rec.UserID]
		}
		if email == "" {
			a.logger.Info("no recipient for due movie",
				zap.String("movie_id", rec.MovieID),
				zap.String("title", rec.Title),
				zap.String("user_id", string(rec.UserID)),
			)
			continue
		}

		tasks = append(tasks, domain.NotificationTask{
			MovieID:        rec.MovieID,
			Title:          rec.Title,
			ReleaseDate:    rec.ReleaseDate,
			PosterPath:     rec.PosterPath,
			RecipientEmail: email,
		})
	}
	return tasks
}

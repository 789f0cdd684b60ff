package release_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/reelwatch/release-notifier/internal/domain"
	"github.com/reelwatch/release-notifier/internal/release"
)

func TestAggregator_OneTaskPerResolvableRecord(t *testing.T) {
	records := []domain.FollowRecord{
		follow("r1", "m1", "u1"),
		follow("r2", "m2", "u2"),
	}
	emails := map[domain.UserID]string{
		"u1": "one@example.com",
		"u2": "two@example.com",
	}

	tasks := release.NewAggregator(zap.NewNop()).Build(records, emails)

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	// Input order preserved.
	if tasks[0].MovieID != "m1" || tasks[1].MovieID != "m2" {
		t.Fatalf("task order not preserved: %v", tasks)
	}
	if tasks[0].RecipientEmail != "one@example.com" {
		t.Fatalf("expected recipient one@example.com, got %s", tasks[0].RecipientEmail)
	}
}

func TestAggregator_DropsUnresolvableRecords(t *testing.T) {
	tests := []struct {
		name   string
		record domain.FollowRecord
		emails map[domain.UserID]string
	}{
		{"no user reference", follow("r1", "m1", ""), map[domain.UserID]string{}},
		{"user resolved to no email", follow("r2", "m2", "u1"), map[domain.UserID]string{"u1": ""}},
		{"user missing from mapping", follow("r3", "m3", "u2"), map[domain.UserID]string{}},
	}

	agg := release.NewAggregator(zap.NewNop())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tasks := agg.Build([]domain.FollowRecord{tc.record}, tc.emails)
			if len(tasks) != 0 {
				t.Fatalf("expected no tasks, got %d", len(tasks))
			}
		})
	}
}

// Two records referencing the same user both produce tasks: deduplication
// applies to lookups, never to notifications.
func TestAggregator_SharedUserGetsOneTaskPerMovie(t *testing.T) {
	records := []domain.FollowRecord{
		follow("r1", "m1", "u1"),
		follow("r2", "m2", "u1"),
	}
	emails := map[domain.UserID]string{"u1": "one@example.com"}

	tasks := release.NewAggregator(zap.NewNop()).Build(records, emails)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks for 2 movies, got %d", len(tasks))
	}
}

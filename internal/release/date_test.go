package release_test

import (
	"testing"
	"time"

	"github.com/reelwatch/release-notifier/internal/release"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDateMatcher_Today(t *testing.T) {
	instant := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	m, err := release.NewDateMatcher("UTC", fixedClock(instant))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Today(); got != "2026-03-14" {
		t.Fatalf("expected 2026-03-14, got %s", got)
	}
}

// TestDateMatcher_TimezoneShiftsDayBoundary verifies that the configured
// zone, not the host zone, decides which calendar day "today" is.
func TestDateMatcher_TimezoneShiftsDayBoundary(t *testing.T) {
	// 23:30 on the 14th in UTC is already the 15th in Tokyo.
	instant := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		timezone string
		want     string
	}{
		{"UTC", "2026-03-14"},
		{"Asia/Tokyo", "2026-03-15"},
		{"America/Los_Angeles", "2026-03-14"},
	}

	for _, tc := range tests {
		t.Run(tc.timezone, func(t *testing.T) {
			m, err := release.NewDateMatcher(tc.timezone, fixedClock(instant))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := m.Today(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

// TestDateMatcher_PredicateStableWithinDay verifies read idempotence: two
// calls within the same calendar day produce the same predicate.
func TestDateMatcher_PredicateStableWithinDay(t *testing.T) {
	morning := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 22, 45, 0, 0, time.UTC)

	m1, _ := release.NewDateMatcher("UTC", fixedClock(morning))
	m2, _ := release.NewDateMatcher("UTC", fixedClock(evening))

	if m1.DuePredicate() != m2.DuePredicate() {
		t.Fatalf("predicates differ within the same day:\n%s\n%s",
			m1.DuePredicate(), m2.DuePredicate())
	}
}

func TestDateMatcher_DuePredicateForm(t *testing.T) {
	instant := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	m, _ := release.NewDateMatcher("UTC", fixedClock(instant))

	want := "DATETIME_FORMAT({Release Date}, 'YYYY-MM-DD') = '2026-01-02'"
	if got := m.DuePredicate(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNewDateMatcher_InvalidTimezone(t *testing.T) {
	if _, err := release.NewDateMatcher("Not/AZone", nil); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

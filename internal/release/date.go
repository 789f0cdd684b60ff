package release

import (
	"fmt"
	"time"
)

const dayFormat = "2006-01-02"

// DateMatcher decides which calendar day counts as "today" and produces the
// store predicate selecting follow records due on that day.
//
// The day boundary is evaluated in a single configured IANA timezone
// (default UTC), fixed at construction. Records are due when their release
// date, truncated to day granularity, equals today's date in that zone.
// Deployments must pin the zone their release dates are authored in;
// choosing a different zone shifts which movies are considered due near
// midnight.
type DateMatcher struct {
	loc *time.Location
	now func() time.Time
}

// NewDateMatcher resolves the timezone once. now is injectable for tests;
// nil means time.Now.
func NewDateMatcher(timezone string, now func() time.Time) (*DateMatcher, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	if now == nil {
		now = time.Now
	}
	return &DateMatcher{loc: loc, now: now}, nil
}

// Today returns the current date in canonical YYYY-MM-DD form.
func (m *DateMatcher) Today() string {
	return m.now().In(m.loc).Format(dayFormat)
}

// DuePredicate returns the declarative filter selecting records whose
// release date equals today. Pure function of the clock; calling it twice
// within the same calendar day yields the same predicate.
func (m *DateMatcher) DuePredicate() string {
	return fmt.Sprintf("DATETIME_FORMAT({Release Date}, 'YYYY-MM-DD') = '%s'", m.Today())
}

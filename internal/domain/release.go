package domain

import "time"

// UserID is the opaque identifier of a user record in the store.
// The release job uses it only as a join key and never mutates it.
type UserID string

// FollowRecord is one stored association between a user and a movie they
// follow, as returned by the record store's filtered query. It carries the
// presentation fields needed to compose a notification. A record with an
// empty UserID references no user and yields no notification.
type FollowRecord struct {
	ID          string `json:"id"`
	MovieID     string `json:"movie_id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"` // date-only, YYYY-MM-DD
	PosterPath  string `json:"poster_path,omitempty"`
	UserID      UserID `json:"user_id,omitempty"`
}

// NotificationTask is a fully-specified, ready-to-send notification.
// One task is built per due FollowRecord with a resolvable recipient;
// it is never mutated after construction.
type NotificationTask struct {
	MovieID        string `json:"movie_id"`
	Title          string `json:"title"`
	ReleaseDate    string `json:"release_date"`
	PosterPath     string `json:"poster_path,omitempty"`
	RecipientEmail string `json:"recipient_email"`
}

// Outcome is the terminal status of a dispatched task.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeSent, OutcomeSkipped, OutcomeFailed:
		return true
	}
	return false
}

// DispatchOutcome records how a single task ended. It exists for the job's
// summary, the dispatch log, and metrics — never for control flow.
type DispatchOutcome struct {
	Task    NotificationTask
	Outcome Outcome
	Reason  string // skip reason or error text; empty for sent
}

// Movie is a store movie record surfaced by the paginated listing endpoint.
type Movie struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date,omitempty"`
	PosterPath  string `json:"poster_path,omitempty"`
	Overview    string `json:"overview,omitempty"`
}

// FollowRequest is the inbound payload for marking a movie as followed.
type FollowRequest struct {
	MovieID     string `json:"movie_id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date,omitempty"`
	PosterPath  string `json:"poster_path,omitempty"`
	UserID      UserID `json:"user_id"`
	FollowType  string `json:"follow_type,omitempty"`
}

func (r *FollowRequest) Validate() error {
	if r.MovieID == "" {
		return ErrInvalidMovieID
	}
	if r.UserID == "" {
		return ErrInvalidUserID
	}
	if r.Title == "" {
		return ErrInvalidTitle
	}
	if r.ReleaseDate != "" {
		if _, err := time.Parse("2006-01-02", r.ReleaseDate); err != nil {
			return ErrInvalidReleaseDate
		}
	}
	return nil
}

// MovieListFilter holds query parameters for the paginated movie listing.
// Exclude carries identifiers the client has already displayed so the page
// can be topped up without duplicate delivery.
type MovieListFilter struct {
	Page    int
	Limit   int
	Exclude map[string]bool
	Query   string
}

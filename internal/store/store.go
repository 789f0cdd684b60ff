package store

import (
	"context"

	"github.com/reelwatch/release-notifier/internal/domain"
)

// User is a user record resolved from the store. Email may be empty when
// the record exists but carries no email field.
type User struct {
	ID    domain.UserID
	Email string
	Name  string
}

// RecordStore abstracts the remote tabular data service holding follow,
// user, and movie records. The HTTP implementation is in http_store.go;
// tests use a hand-written mock (mock_store.go).
type RecordStore interface {
	// ListFollows returns all follow records matching the given declarative
	// filter predicate (see release.DateMatcher for the due-today form).
	ListFollows(ctx context.Context, predicate string) ([]domain.FollowRecord, error)

	// GetUser fetches a single user record by identifier.
	// Must be safe for arbitrary concurrent calls.
	GetUser(ctx context.Context, id domain.UserID) (*User, error)

	// CreateFollow marks a movie as followed for a user.
	CreateFollow(ctx context.Context, req domain.FollowRequest) (*domain.FollowRecord, error)

	// DeleteFollow removes the follow association for (movie, user),
	// optionally scoped by a follow-type tag.
	DeleteFollow(ctx context.Context, movieID string, userID domain.UserID, followType string) error

	// ListMovies returns one page of catalog movies plus a "more available"
	// flag, honouring the filter's already-displayed exclusion set.
	ListMovies(ctx context.Context, filter domain.MovieListFilter) ([]domain.Movie, bool, error)
}

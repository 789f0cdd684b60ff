package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrUnauthorized       = errors.New("unauthorized: trigger secret mismatch")
	ErrNotFound           = errors.New("not found")
	ErrInvalidMovieID     = errors.New("movie_id must not be empty")
	ErrInvalidUserID      = errors.New("user_id must not be empty")
	ErrInvalidTitle       = errors.New("title must not be empty")
	ErrInvalidReleaseDate = errors.New("release_date must be YYYY-MM-DD")
)

package store

import (
	"context"
	"sync"

	"github.com/reelwatch/release-notifier/internal/domain"
)

// MockRecordStore is a hand-written, in-memory implementation of RecordStore
// used in unit tests. No mock-generation library needed.
type MockRecordStore struct {
	mu      sync.RWMutex
	follows map[string]domain.FollowRecord // keyed by record ID
	users   map[domain.UserID]*User
	movies  []domain.Movie

	// UserLookups counts GetUser calls, so tests can assert each distinct
	// user is fetched at most once. ListCalls counts ListFollows calls.
	UserLookups int
	ListCalls   int

	// Optional error overrides — set in tests to simulate failure paths.
	ListFollowsErr error
	GetUserErr     map[domain.UserID]error
	CreateErr      error
}

func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{
		follows:    make(map[string]domain.FollowRecord),
		users:      make(map[domain.UserID]*User),
		GetUserErr: make(map[domain.UserID]error),
	}
}

// AddFollow seeds a follow record.
func (m *MockRecordStore) AddFollow(f domain.FollowRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.follows[f.ID] = f
}

// AddUser seeds a user record.
func (m *MockRecordStore) AddUser(u User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := u
	m.users[u.ID] = &clone
}

// AddMovies seeds catalog movies in listing order.
func (m *MockRecordStore) AddMovies(movies ...domain.Movie) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movies = append(m.movies, movies...)
}

// ListFollows returns every seeded follow record; the predicate is ignored
// because tests seed only the records they want returned.
func (m *MockRecordStore) ListFollows(_ context.Context, _ string) ([]domain.FollowRecord, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()
	if m.ListFollowsErr != nil {
		return nil, m.ListFollowsErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.FollowRecord, 0, len(m.follows))
	for _, f := range m.follows {
		result = append(result, f)
	}
	return result, nil
}

func (m *MockRecordStore) GetUser(_ context.Context, id domain.UserID) (*User, error) {
	m.mu.Lock()
	m.UserLookups++
	err := m.GetUserErr[id]
	u, ok := m.users[id]
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *MockRecordStore) CreateFollow(_ context.Context, req domain.FollowRequest) (*domain.FollowRecord, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f := domain.FollowRecord{
		ID:          "rec" + req.MovieID + string(req.UserID),
		MovieID:     req.MovieID,
		Title:       req.Title,
		ReleaseDate: req.ReleaseDate,
		PosterPath:  req.PosterPath,
		UserID:      req.UserID,
	}
	m.follows[f.ID] = f
	return &f, nil
}

func (m *MockRecordStore) DeleteFollow(_ context.Context, movieID string, userID domain.UserID, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, f := range m.follows {
		if f.MovieID == movieID && f.UserID == userID {
			delete(m.follows, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockRecordStore) ListMovies(_ context.Context, filter domain.MovieListFilter) ([]domain.Movie, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var remaining []domain.Movie
	for _, mv := range m.movies {
		if !filter.Exclude[mv.ID] {
			remaining = append(remaining, mv)
		}
	}

	skip := (filter.Page - 1) * filter.Limit
	if skip >= len(remaining) {
		return nil, false, nil
	}
	end := skip + filter.Limit
	hasMore := end < len(remaining)
	if end > len(remaining) {
		end = len(remaining)
	}
	return remaining[skip:end], hasMore, nil
}

// compile-time check that MockRecordStore implements RecordStore
var _ RecordStore = (*MockRecordStore)(nil)

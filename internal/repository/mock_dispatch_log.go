package repository

import (
	"context"
	"sync"

	"github.com/reelwatch/release-notifier/internal/domain"
)

// MockDispatchLogRepository is a hand-written, in-memory implementation of
// DispatchLogRepository used in unit tests.
type MockDispatchLogRepository struct {
	mu       sync.RWMutex
	Outcomes map[string][]domain.DispatchOutcome // keyed by run date

	// Optional error overrides — set in tests to simulate failure paths.
	RecordErr  error
	WasSentErr error
}

func NewMockDispatchLogRepository() *MockDispatchLogRepository {
	return &MockDispatchLogRepository{
		Outcomes: make(map[string][]domain.DispatchOutcome),
	}
}

func (m *MockDispatchLogRepository) RecordOutcomes(_ context.Context, runDate string, outcomes []domain.DispatchOutcome) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outcomes[runDate] = append(m.Outcomes[runDate], outcomes...)
	return nil
}

func (m *MockDispatchLogRepository) WasSent(_ context.Context, runDate, movieID, recipient string) (bool, error) {
	if m.WasSentErr != nil {
		return false, m.WasSentErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.Outcomes[runDate] {
		if o.Outcome == domain.OutcomeSent && o.Task.MovieID == movieID && o.Task.RecipientEmail == recipient {
			return true, nil
		}
	}
	return false, nil
}

// compile-time check that MockDispatchLogRepository implements DispatchLogRepository
var _ DispatchLogRepository = (*MockDispatchLogRepository)(nil)

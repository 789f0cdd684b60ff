package mailer

import (
	"context"
	"sync"
)

// MockMailer is a hand-written in-memory Mailer used in unit tests.
type MockMailer struct {
	mu   sync.Mutex
	sent []Message

	// FailFor maps recipient addresses to the error their send should
	// return — set in tests to simulate per-recipient failures.
	FailFor map[string]error
}

func NewMockMailer() *MockMailer {
	return &MockMailer{FailFor: make(map[string]error)}
}

func (m *MockMailer) Send(_ context.Context, msg Message) error {
	if err := m.FailFor[msg.To]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of all successfully delivered messages.
func (m *MockMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

// compile-time check that MockMailer implements Mailer
var _ Mailer = (*MockMailer)(nil)

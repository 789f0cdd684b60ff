package dispatch_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/reelwatch/release-notifier/internal/dispatch"
	"github.com/reelwatch/release-notifier/internal/domain"
	"github.com/reelwatch/release-notifier/internal/mailer"
	"github.com/reelwatch/release-notifier/internal/ratelimiter"
)

func newDispatcher(m *mailer.MockMailer) *dispatch.Dispatcher {
	return dispatch.NewDispatcher(m, ratelimiter.New(1000), "https://img.example/w500", zap.NewNop(), dispatch.MetricHooks{})
}

func task(movieID, recipient string) domain.NotificationTask {
	return domain.NotificationTask{
		MovieID:        movieID,
		Title:          "Movie " + movieID,
		ReleaseDate:    "2026-03-14",
		RecipientEmail: recipient,
	}
}

func TestDispatcher_AllSent(t *testing.T) {
	mock := mailer.NewMockMailer()
	d := newDispatcher(mock)

	tasks := []domain.NotificationTask{
		task("m1", "a@example.com"),
		task("m2", "b@example.com"),
	}
	outcomes := d.Dispatch(context.Background(), tasks)

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Outcome != domain.OutcomeSent {
			t.Fatalf("outcome %d: expected sent, got %s (%s)", i, o.Outcome, o.Reason)
		}
	}
	if len(mock.Sent()) != 2 {
		t.Fatalf("expected 2 delivered messages, got %d", len(mock.Sent()))
	}
}

// TestDispatcher_FailureIsolation covers the middle-task failure case:
// one recipient's send fails, the others still reach Sent and the
// dispatcher returns normally.
func TestDispatcher_FailureIsolation(t *testing.T) {
	mock := mailer.NewMockMailer()
	mock.FailFor["b@example.com"] = errors.New("mailbox on fire")
	d := newDispatcher(mock)

	tasks := []domain.NotificationTask{
		task("m1", "a@example.com"),
		task("m2", "b@example.com"),
		task("m3", "c@example.com"),
	}
	outcomes := d.Dispatch(context.Background(), tasks)

	want := []domain.Outcome{domain.OutcomeSent, domain.OutcomeFailed, domain.OutcomeSent}
	for i, o := range outcomes {
		if o.Outcome != want[i] {
			t.Fatalf("outcome %d: expected %s, got %s", i, want[i], o.Outcome)
		}
	}
	if outcomes[1].Reason != "mailbox on fire" {
		t.Fatalf("expected failure reason recorded, got %q", outcomes[1].Reason)
	}
}

func TestDispatcher_EmptyBatch(t *testing.T) {
	d := newDispatcher(mailer.NewMockMailer())
	outcomes := d.Dispatch(context.Background(), nil)
	if len(outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(outcomes))
	}
}

func TestDispatcher_ComposedMessage(t *testing.T) {
	mock := mailer.NewMockMailer()
	d := newDispatcher(mock)

	withPoster := task("m1", "a@example.com")
	withPoster.Title = "Dune: Part Three"
	withPoster.PosterPath = "/dune3.jpg"

	d.Dispatch(context.Background(), []domain.NotificationTask{withPoster})

	sent := mock.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sent))
	}
	msg := sent[0]

	if msg.Subject != "Dune: Part Three is out today" {
		t.Fatalf("unexpected subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.HTMLBody, "2026-03-14") {
		t.Fatalf("body missing release date: %s", msg.HTMLBody)
	}
	// Poster URL is image base + poster path.
	if !strings.Contains(msg.HTMLBody, "https://img.example/w500/dune3.jpg") {
		t.Fatalf("body missing poster URL: %s", msg.HTMLBody)
	}
}

func TestDispatcher_NoPosterOmitsImage(t *testing.T) {
	mock := mailer.NewMockMailer()
	d := newDispatcher(mock)

	d.Dispatch(context.Background(), []domain.NotificationTask{task("m1", "a@example.com")})

	if strings.Contains(mock.Sent()[0].HTMLBody, "<img") {
		t.Fatal("expected no image tag when poster path is absent")
	}
}

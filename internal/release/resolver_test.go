package release_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/reelwatch/release-notifier/internal/domain"
	"github.com/reelwatch/release-notifier/internal/release"
	"github.com/reelwatch/release-notifier/internal/store"
)

func follow(id, movieID string, userID domain.UserID) domain.FollowRecord {
	return domain.FollowRecord{
		ID:          id,
		MovieID:     movieID,
		Title:       "Movie " + movieID,
		ReleaseDate: "2026-03-14",
		UserID:      userID,
	}
}

// TestUserResolver_OneLookupPerDistinctUser verifies that many records
// referencing the same user trigger exactly one store fetch.
func TestUserResolver_OneLookupPerDistinctUser(t *testing.T) {
	mock := store.NewMockRecordStore()
	mock.AddUser(store.User{ID: "u1", Email: "one@example.com"})
	mock.AddUser(store.User{ID: "u2", Email: "two@example.com"})

	records := []domain.FollowRecord{
		follow("r1", "m1", "u1"),
		follow("r2", "m2", "u1"),
		follow("r3", "m3", "u2"),
		follow("r4", "m4", "u1"),
	}

	resolver := release.NewUserResolver(mock, zap.NewNop())
	emails := resolver.Resolve(context.Background(), records)

	if mock.UserLookups != 2 {
		t.Fatalf("expected 2 lookups for 2 distinct users, got %d", mock.UserLookups)
	}
	if emails["u1"] != "one@example.com" || emails["u2"] != "two@example.com" {
		t.Fatalf("unexpected mapping: %v", emails)
	}
}

func TestUserResolver_RecordsWithoutUserContributeNothing(t *testing.T) {
	mock := store.NewMockRecordStore()

	records := []domain.FollowRecord{
		follow("r1", "m1", ""),
		follow("r2", "m2", ""),
	}

	resolver := release.NewUserResolver(mock, zap.NewNop())
	emails := resolver.Resolve(context.Background(), records)

	if mock.UserLookups != 0 {
		t.Fatalf("expected 0 lookups, got %d", mock.UserLookups)
	}
	if len(emails) != 0 {
		t.Fatalf("expected empty mapping, got %v", emails)
	}
}

// TestUserResolver_FailureIsolation verifies that one user's lookup failure
// neither aborts resolution nor hides the other users' emails.
func TestUserResolver_FailureIsolation(t *testing.T) {
	mock := store.NewMockRecordStore()
	mock.AddUser(store.User{ID: "ok", Email: "ok@example.com"})
	mock.AddUser(store.User{ID: "boom", Email: "boom@example.com"})
	mock.GetUserErr["boom"] = errors.New("store unreachable")

	records := []domain.FollowRecord{
		follow("r1", "m1", "ok"),
		follow("r2", "m2", "boom"),
	}

	resolver := release.NewUserResolver(mock, zap.NewNop())
	emails := resolver.Resolve(context.Background(), records)

	if emails["ok"] != "ok@example.com" {
		t.Fatalf("expected ok user resolved, got %q", emails["ok"])
	}
	got, present := emails["boom"]
	if !present {
		t.Fatal("expected an explicit entry for the failed user")
	}
	if got != "" {
		t.Fatalf("expected empty email for failed lookup, got %q", got)
	}
}

func TestUserResolver_MissingUserYieldsEmptyEntry(t *testing.T) {
	mock := store.NewMockRecordStore()

	resolver := release.NewUserResolver(mock, zap.NewNop())
	emails := resolver.Resolve(context.Background(), []domain.FollowRecord{follow("r1", "m1", "ghost")})

	if got, present := emails["ghost"]; !present || got != "" {
		t.Fatalf("expected explicit empty entry for missing user, got (%q, %v)", got, present)
	}
}

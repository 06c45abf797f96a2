package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/forum/internal/domain"
)

func TestSessionRepository_CreateGetDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com", "Alice")

	now := time.Now().UTC()
	s := &domain.Session{ID: "sess-1", UserID: alice.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := db.Sessions().Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := db.Sessions().GetByID(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.UserID != alice.ID {
		t.Fatalf("expected user %d, got %d", alice.ID, found.UserID)
	}
	if !found.ExpiresAt.Equal(s.ExpiresAt) {
		t.Fatalf("expected expiry %v, got %v", s.ExpiresAt, found.ExpiresAt)
	}

	if err := db.Sessions().Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Sessions().GetByID(ctx, "sess-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := db.Sessions().Delete(ctx, "sess-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com", "Alice")

	now := time.Now().UTC()
	sessions := []*domain.Session{
		{ID: "old", UserID: alice.ID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)},
		{ID: "live", UserID: alice.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
	}
	for _, s := range sessions {
		if err := db.Sessions().Create(ctx, s); err != nil {
			t.Fatalf("Create %s: %v", s.ID, err)
		}
	}

	n, err := db.Sessions().DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expired session removed, got %d", n)
	}
	if _, err := db.Sessions().GetByID(ctx, "live"); err != nil {
		t.Fatalf("live session should survive: %v", err)
	}
}

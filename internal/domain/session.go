package domain

import (
	"context"
	"time"
)

// Session binds an opaque token id to an authenticated user.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionRepository is the server-side session table.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	// Delete removes the session. Deleting a missing session returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes every session that expired before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

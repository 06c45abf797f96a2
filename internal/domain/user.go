package domain

import (
	"context"
	"time"
)

// User represents a registered forum member. Users are immutable after
// registration.
type User struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts the user and fills ID and CreatedAt. Returns
	// ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// Profile is the public view of a user: no email, plus the posts they wrote.
type Profile struct {
	UserID      int64
	DisplayName string
	CreatedAt   time.Time
	Posts       []Post
}

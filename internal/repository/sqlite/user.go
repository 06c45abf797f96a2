package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/forum/internal/domain"
)

// userRepo implements domain.UserRepository using SQLite.
type userRepo struct {
	db *sql.DB
}

const selectUser = `SELECT id, email, display_name, password_hash, created_at FROM users`

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, display_name, password_hash, created_at)
		 VALUES (?, ?, ?, ?)
		 RETURNING id`,
		user.Email, user.DisplayName, user.PasswordHash, time.Now().UTC(),
	).Scan(&user.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	// Read back so CreatedAt carries the stored precision.
	stored, err := r.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	user.CreatedAt = stored.CreatedAt
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE id = ?`, id), "id")
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE email = ?`, email), "email")
}

func scanUser(row *sql.Row, by string) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by %s: %w", by, err)
	}
	return &u, nil
}

// displayName resolves the name shown next to content written by userID.
func displayName(ctx context.Context, q dbtx, userID int64) (string, error) {
	var name string
	err := q.QueryRowContext(ctx, "SELECT display_name FROM users WHERE id = ?", userID).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("author %d: %w", userID, domain.ErrNotFound)
		}
		return "", fmt.Errorf("get author: %w", err)
	}
	return name, nil
}

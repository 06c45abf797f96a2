package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, Postgres) owns its own migration
// files, so the backend is swappable from configuration alone.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Store is a Database together with the repositories it backs.
type Store interface {
	Database
	Users() UserRepository
	Posts() PostRepository
	Comments() CommentRepository
	Sessions() SessionRepository
}

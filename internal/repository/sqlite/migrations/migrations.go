// Package migrations holds the SQLite schema as goose migration files.
package migrations

import (
	"context"
	"database/sql"
	"embed"

	"github.com/msomdec/forum/internal/repository/migrate"
)

// Dialect is the goose dialect name for SQLite.
const Dialect = "sqlite3"

//go:embed *.sql
var FS embed.FS

// Run applies all unapplied migrations from the embedded FS to the database.
func Run(ctx context.Context, db *sql.DB) error {
	return migrate.Up(ctx, db, Dialect, FS)
}

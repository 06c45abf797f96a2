// Package migrate applies embedded goose migrations for a repository backend.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

// goose keeps its base FS and dialect in package globals.
var mu sync.Mutex

// Up applies every pending migration found at the root of fsys using the given
// goose dialect ("sqlite3", "postgres").
func Up(ctx context.Context, db *sql.DB, dialect string, fsys fs.FS) error {
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(slogLogger{})

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Version returns the current schema version recorded by goose.
func Version(ctx context.Context, db *sql.DB, dialect string) (int64, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}

// slogLogger routes goose output into slog.
type slogLogger struct{}

func (slogLogger) Printf(format string, v ...any) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (slogLogger) Fatalf(format string, v ...any) {
	// goose only calls Fatalf from its CLI entry points; never exit the server from here.
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

// Package dbtest opens migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tracker/internal/db"
)

// DSN returns a SQLite connection string for a fresh file under t.TempDir().
func DSN(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	return path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// New returns a migrated database that is closed when the test ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", DSN(t))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(context.Background(), database.DB, "sqlite")
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return database
}

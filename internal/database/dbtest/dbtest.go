// Package dbtest provides migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/config"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/database"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// New returns a fresh in-memory database with the full schema applied.
// It is closed automatically when the test finishes.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := database.Open(context.Background(), config.DatabaseConfig{
		Driver: "sqlite3",
		Path:   ":memory:",
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrator, err := database.NewMigrator(db.DB, "sqlite3")
	if err != nil {
		t.Fatalf("create migrator: %v", err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

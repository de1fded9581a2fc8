// Package dbtest opens throwaway SQLite databases with the inventory schema
// applied, for package tests that need real storage.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/treasuretrove/ledger/migrations/inventory"
	"github.com/treasuretrove/ledger/pkg/database"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/pkg/migrator"
)

// NewSQLite returns a migrated database backed by a file in t.TempDir().
// The pool is closed when the test ends.
func NewSQLite(t testing.TB) *database.Database {
	t.Helper()

	url := "sqlite://" + filepath.Join(t.TempDir(), "trove.db")
	db, err := database.NewPool(context.Background(), url, logger.Discard())
	if err != nil {
		t.Fatalf("dbtest: open sqlite: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := migrator.RunMigrations(context.Background(), db, inventory.FS); err != nil {
		t.Fatalf("dbtest: migrate: %v", err)
	}
	return db
}

// Count returns the number of rows in table. It fails the test on error.
func Count(t testing.TB, db *database.Database, table string) int {
	t.Helper()

	var n int
	if err := db.DB().QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("dbtest: count %s: %v", table, err)
	}
	return n
}

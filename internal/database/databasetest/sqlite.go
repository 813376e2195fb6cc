// Package databasetest opens a migrated in-memory SQLite database for tests.
package databasetest

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/database"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Open returns a fresh database that is closed when the test ends. A single
// connection keeps every query on the same in-memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

package db

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
)

// OpenTestSQLite opens a migrated SQLite database in t.TempDir() and closes
// it on cleanup.
func OpenTestSQLite(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.sqlite")
	db, err := Connect(DriverSQLite, "file:"+path+"?_foreign_keys=on", nil)
	if err != nil {
		t.Fatalf("open test sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

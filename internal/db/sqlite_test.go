package db

import (
	"path/filepath"
	"testing"
)

func TestNewSQLiteDBAndMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "summaries.db")

	if err := RunMigrations(path); err != nil {
		t.Fatalf("RunMigrations returned error: %v", err)
	}
	// Running twice must be a no-op.
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second RunMigrations returned error: %v", err)
	}

	database, err := NewSQLiteDB(path)
	if err != nil {
		t.Fatalf("NewSQLiteDB returned error: %v", err)
	}
	defer database.Close()

	var count int
	if err := database.Get(&count, `SELECT COUNT(*) FROM summaries`); err != nil {
		t.Fatalf("summaries table missing: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func testOpen(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestOpen(t *testing.T) {
	db := testOpen(t)

	if db.Path() == "" {
		t.Error("Path() returned empty string")
	}
	if _, err := os.Stat(db.Path()); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := Open(context.Background(), Config{Path: path, BusyTimeout: 1})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	db := testOpen(t)

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestClose(t *testing.T) {
	db := testOpen(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Closed connection should fail the health check.
	if err := db.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() after Close() = nil, want error")
	}
}

func TestCloseNil(t *testing.T) {
	db := &DB{}

	if err := db.Close(); err != nil {
		t.Errorf("Close() on zero value error = %v", err)
	}
}

package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Vinoth-46/isai-backend/internal/infra/storage"
)

func openTempStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "storage_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store := storage.NewSQLiteStore(filepath.Join(tmpDir, "test.db"))
	if err := store.Open(); err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStoreOpenClose(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "storage_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")
	store := storage.NewSQLiteStore(dbPath)

	if err := store.Open(); err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file should exist after Open()")
	}

	if err := store.Close(); err != nil {
		t.Errorf("Failed to close store: %v", err)
	}
}

func TestSQLiteStoreGetMissingKey(t *testing.T) {
	store := openTempStore(t)

	_, ok, err := store.Get("nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Expected missing key to report ok=false")
	}
}

func TestSQLiteStoreSetGet(t *testing.T) {
	store := openTempStore(t)

	if err := store.Set(storage.KeyTheme, "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := store.Get(storage.KeyTheme)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected key to be present")
	}
	if value != "dark" {
		t.Errorf("Expected value 'dark', got %q", value)
	}
}

func TestSQLiteStoreSetReplaces(t *testing.T) {
	store := openTempStore(t)

	if err := store.Set("k", "one"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set("k", "two"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, _, err := store.Get("k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "two" {
		t.Errorf("Expected value 'two', got %q", value)
	}
}

func TestSQLiteStoreDelete(t *testing.T) {
	store := openTempStore(t)

	if err := store.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, ok, err := store.Get("k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Expected key to be gone after Delete")
	}

	// Deleting an absent key is not an error
	if err := store.Delete("k"); err != nil {
		t.Errorf("Delete of absent key should not fail: %v", err)
	}
}

func TestSQLiteStoreReopenKeepsData(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "storage_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Open(); err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := store.Set(storage.KeyPlaylists, `{"pl_1":{}}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := storage.NewSQLiteStore(dbPath)
	if err := reopened.Open(); err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get(storage.KeyPlaylists)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || value != `{"pl_1":{}}` {
		t.Errorf("Expected persisted value after reopen, got ok=%v value=%q", ok, value)
	}
}

func TestMemoryStore(t *testing.T) {
	store := storage.NewMemoryStore()

	if err := store.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, _ := store.Get("k")
	if !ok || value != "v" {
		t.Errorf("Expected value 'v', got ok=%v value=%q", ok, value)
	}
	if err := store.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := store.Get("k"); ok {
		t.Error("Expected key to be gone after Delete")
	}
}

package storage

import (
	"path/filepath"
	"testing"
	"time"
)

// TestReopenKeepsHistory verifies records survive a close and that
// migrations are not re-applied on an existing database.
func TestReopenKeepsHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	first := NewStorageAt(dbPath)
	if err := first.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	first.RecordSearch(SearchRecord{
		SearchID:     "persisted",
		QueryHash:    HashQuery("integration test query"),
		Timestamp:    time.Now(),
		ResultsCount: 3,
		Outcome:      OutcomeResults,
	})
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := NewStorageAt(dbPath)
	if err := second.Init(); err != nil {
		t.Fatalf("re-Init failed: %v", err)
	}
	defer second.Close()

	version, err := second.getCurrentMigrationVersion()
	if err != nil {
		t.Fatalf("failed to read migration version: %v", err)
	}
	if version != 2 {
		t.Errorf("expected schema version 2, got %d", version)
	}

	stats, _ := second.Stats(time.Now().Add(-time.Hour))
	if stats.Searches != 1 {
		t.Errorf("expected 1 persisted search, got %d", stats.Searches)
	}
}

func TestDuplicateSearchIDIsIgnored(t *testing.T) {
	storage := newTestStorage(t)
	record := SearchRecord{SearchID: "same", QueryHash: "h", Timestamp: time.Now(), ResultsCount: 1}

	if err := storage.RecordSearch(record); err != nil {
		t.Fatal(err)
	}
	if err := storage.RecordSearch(record); err != nil {
		t.Errorf("duplicate insert should be logged, not returned: %v", err)
	}

	stats, _ := storage.Stats(time.Time{})
	if stats.Searches != 1 {
		t.Errorf("expected 1 stored search, got %d", stats.Searches)
	}
}

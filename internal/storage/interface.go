/*
Package storage implements persistent search history.

Each executed search is stored as a SearchRecord in SQLite with the query
replaced by its SHA256 hash. If the database is unavailable the storage
disables itself and every operation becomes a no-op, so history never gets in
the way of searching.

The database lives at ~/.site-search/history.db by default and uses
modernc.org/sqlite (a pure Go, CGo-free implementation).
*/
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Storage defines the interface for persistent history operations.
type Storage interface {
	// Init opens the database and runs migrations.
	Init() error

	// RecordSearch stores one search.
	RecordSearch(record SearchRecord) error

	// Stats summarizes searches made at or after since.
	Stats(since time.Time) (Stats, error)

	// Cleanup removes records older than retention.
	Cleanup(retention time.Duration) error

	// Close closes the database connection.
	Close() error
}

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// DefaultPath returns ~/.site-search/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".site-search", "history.db"), nil
}

// NewStorage creates storage at the default path. If the home directory
// cannot be found the storage is disabled.
func NewStorage() *SQLiteStorage {
	path, err := DefaultPath()
	if err != nil {
		slog.Warn("search history disabled", "error", err)
		return &SQLiteStorage{enabled: false}
	}
	return NewStorageAt(path)
}

// NewStorageAt creates storage backed by the database at path. A leading
// "~/" is expanded to the home directory.
func NewStorageAt(path string) *SQLiteStorage {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Warn("search history disabled", "error", err)
			return &SQLiteStorage{enabled: false}
		}
		path = filepath.Join(home, path[2:])
	}
	return &SQLiteStorage{dbPath: path, enabled: true}
}

// Disabled returns storage that never touches disk.
func Disabled() *SQLiteStorage {
	return &SQLiteStorage{enabled: false}
}

// Enabled reports whether the database is usable.
func (s *SQLiteStorage) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled && s.db != nil
}

// Init opens the database and runs migrations.
//
// If initialization fails, storage is disabled and subsequent operations
// become no-ops.
func (s *SQLiteStorage) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			slog.Warn("search history disabled", "error", initErr)
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			slog.Warn("search history disabled", "error", initErr)
			return
		}

		if err := db.Ping(); err != nil {
			db.Close()
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			slog.Warn("search history disabled", "error", initErr)
			return
		}
		s.db = db

		if err := s.runMigrations(); err != nil {
			db.Close()
			s.db = nil
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			slog.Warn("search history disabled", "error", initErr)
			return
		}
	})

	return initErr
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}

// HashQuery creates a SHA256 hash of a normalized query for privacy.
// Queries differing only in case or surrounding space hash the same.
func HashQuery(query string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return hex.EncodeToString(hash[:])
}

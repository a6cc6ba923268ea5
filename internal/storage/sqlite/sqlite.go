// Package sqlite provides a SQLite-backed implementation of the storage.SnapshotStore interface.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/liquifier/internal/storage"
)

// ErrSnapshotNotFound is returned by OpenReadOnly when no database exists at the path.
var ErrSnapshotNotFound = errors.New("snapshot database not found")

// Ensure SQLiteStore implements storage.SnapshotStore
var _ storage.SnapshotStore = (*SQLiteStore)(nil)

// SQLiteStore implements storage.SnapshotStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// OpenReadOnly opens an existing snapshot for queries only.
// It never creates the file or touches the schema; a snapshot that was never
// imported fails with ErrSnapshotNotFound.
func OpenReadOnly(dbPath string) (*SQLiteStore, error) {
	info, err := os.Stat(dbPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, dbPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrSnapshotNotFound, dbPath)
	}

	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(dbPath)+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

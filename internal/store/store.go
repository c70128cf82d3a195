package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// migrations are applied in order; user_version records how many have run.
// Append only: a released entry never changes.
var migrations = []string{
	// 1: runs table
	schemaSQL,
	// 2: per-demo history lookups
	`CREATE INDEX IF NOT EXISTS idx_runs_demo_seq ON runs(demo, seq)`,
}

// sqliteParams are go-sqlite3 DSN options applied to every connection.
// WAL lets history be listed while a suite is recording; the busy timeout
// covers two CLI processes writing to one file.
const sqliteParams = "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"

// Store keeps the history of demo replays.
type Store struct {
	db *sql.DB
}

// Open opens the history database at path, creating the file and its
// parent directories if needed, and brings the schema up to date.
// ":memory:" opens a throwaway store.
func Open(path string) (*Store, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}

	// One connection: seq assignment reads MAX(seq) and inserts in one
	// transaction, and an in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close closes the database. It is safe to call on a zero Store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

func ensureDir(path string) error {
	if isMemory(path) || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history directory %s: %w", dir, err)
	}
	return nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqliteParams
}

// schemaVersion reports how many migrations the database has applied.
func schemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return version, nil
}

// migrate applies each pending migration in its own transaction together
// with the user_version bump, so a failed step leaves the previous version.
func migrate(db *sql.DB) error {
	version, err := schemaVersion(db)
	if err != nil {
		return err
	}
	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than supported %d", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("migration %d: set user_version: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", i+1, err)
		}
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/listly/internal/model"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// ErrLocked is returned when another process holds the database lock.
var ErrLocked = errors.New("database is in use by another listly process")

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	queries
	db   *sqlx.DB
	lock *flock.Flock
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// takes the single-writer file lock, enables WAL mode and foreign keys,
// and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	var lock *flock.Flock
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		lock = flock.New(dbPath + ".lock")
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("locking database: %w", err)
		}
		if !ok {
			return nil, ErrLocked
		}
	}

	s, err := open(dbPath)
	if err != nil {
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, err
	}
	s.lock = lock
	return s, nil
}

func open(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps pragmas and in-memory databases pinned.
	// Only one writer exists, so nothing is lost.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for crash-safe writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{queries: queries{ext: db}, db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection and releases the lock.
func (s *SQLiteStore) Close() error {
	err := s.db.Close()
	if s.lock != nil {
		if uerr := s.lock.Unlock(); uerr != nil && err == nil {
			err = fmt.Errorf("releasing database lock: %w", uerr)
		}
	}
	return err
}

// InTx runs fn inside a transaction, committing only if fn returns nil.
func (s *SQLiteStore) InTx(ctx context.Context, fn func(q Queries) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr("beginning transaction", err)
	}
	defer tx.Rollback()

	if err := fn(queries{ext: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("committing transaction", err)
	}
	return nil
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order, each in its own transaction.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		tx, err := s.db.Beginx()
		if err != nil {
			return fmt.Errorf("beginning migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration v%d: %w", m.version, err)
		}
	}

	return nil
}

func storageErr(op string, err error) error {
	return &model.StorageError{Op: op, Err: err}
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

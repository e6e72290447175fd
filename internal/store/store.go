// Package store persists todo items in a single-table SQLite file.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DataFileName is the store file used when no path is configured.
const DataFileName = "todos.db"

var (
	// ErrNotFound is returned when no item has the requested name.
	ErrNotFound = errors.New("no such item")
	// ErrDuplicate is returned when an item with the same name already exists.
	ErrDuplicate = errors.New("an item with that name already exists")
)

const schema = `CREATE TABLE IF NOT EXISTS todo (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL UNIQUE,
	details   TEXT,
	completed BOOLEAN NOT NULL DEFAULT false
)`

// Store wraps the connection to the todo database.
type Store struct {
	db  *sql.DB
	log *log.Logger
}

// DefaultPath returns DataFileName resolved against the working directory.
func DefaultPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, DataFileName), nil
}

// Open opens (creating if absent) the database at path and makes sure the
// todo table exists. An existing table is left exactly as it is.
func Open(ctx context.Context, path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}

	dsn, err := dataSourceName(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("opening store", "path", path, "dsn", dsn)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db, log: logger}, nil
}

// Close releases the connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// dataSourceName turns a filesystem path into a file: URI so that characters
// such as '?' and '#' stay part of the file name.
func dataSourceName(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "_pragma=busy_timeout(5000)",
	}
	return u.String(), nil
}

func isConstraint(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

package preview

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 1

// Entry is one cached preview record.
type Entry struct {
	URL         string
	Title       string
	Description string
	Icon        string // data URI, may be empty
	FetchedAt   time.Time
}

// Store persists preview entries in a SQLite database so metadata survives
// across runs.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the cache database at path.
func NewStore(path string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS previews (
			url TEXT PRIMARY KEY NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			fetched_at TEXT NOT NULL
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the cached entry for a URL, or ok=false when absent.
func (s *Store) Get(url string) (Entry, bool, error) {
	var e Entry
	var fetchedAt string
	err := s.db.QueryRow(`
		SELECT url, title, description, icon, fetched_at
		FROM previews WHERE url = ?
	`, url).Scan(&e.URL, &e.Title, &e.Description, &e.Icon, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	e.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
	return e, true, nil
}

// Put inserts or replaces the entry for its URL.
func (s *Store) Put(e Entry) error {
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO previews (url, title, description, icon, fetched_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.URL, e.Title, e.Description, e.Icon, e.FetchedAt.Format(time.RFC3339))
	return err
}

// Prune deletes entries fetched before the cutoff and returns how many went.
func (s *Store) Prune(olderThan time.Time) (int, error) {
	res, err := s.db.Exec(
		"DELETE FROM previews WHERE fetched_at < ?",
		olderThan.Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// DefaultStorePath returns the default cache path: ~/.config/bmorg/previews.db
func DefaultStorePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "bmorg", "previews.db"), nil
}

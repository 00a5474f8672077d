package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS fetched (
	sha256 TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	source TEXT NOT NULL,
	label TEXT NOT NULL,
	path TEXT NOT NULL,
	bytes INTEGER NOT NULL,
	fetched_at INTEGER NOT NULL
)`

// Entry is one row of the ledger
type Entry struct {
	SHA256    string
	URL       string
	Source    string
	Label     string
	Path      string
	Bytes     int64
	FetchedAt time.Time
}

// Ledger records the content hash of every image a theme has fetched,
// so later runs can reuse files already on disk.
type Ledger struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens or creates the ledger database at path
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ledger table: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the database
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Seen reports whether content with this hash was fetched before
func (l *Ledger) Seen(sha string) (bool, error) {
	_, ok, err := l.Lookup(sha)
	return ok, err
}

// Lookup returns the photo path recorded for sha
func (l *Ledger) Lookup(sha string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var path string
	err := l.db.QueryRow(`SELECT path FROM fetched WHERE sha256 = ?`, sha).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query ledger: %w", err)
	}
	return path, true, nil
}

// Record stores a fetched file. A path belongs to one hash only, so rows
// pointing at an overwritten file are dropped.
func (l *Ledger) Record(sha, url, source, label, path string, bytes int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM fetched WHERE path = ? AND sha256 != ?`, path, sha); err != nil {
		return fmt.Errorf("failed to clear stale ledger rows: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO fetched (sha256, url, source, label, path, bytes, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sha256) DO UPDATE SET
			url = excluded.url,
			source = excluded.source,
			label = excluded.label,
			path = excluded.path,
			bytes = excluded.bytes,
			fetched_at = excluded.fetched_at`,
		sha, url, source, label, path, bytes, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", path, err)
	}

	return tx.Commit()
}

// Count returns the number of recorded files
func (l *Ledger) Count() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var n int
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM fetched`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ledger rows: %w", err)
	}
	return n, nil
}

// Entries returns every row, oldest first
func (l *Ledger) Entries() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.Query(`SELECT sha256, url, source, label, path, bytes, fetched_at
		FROM fetched ORDER BY fetched_at, path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&e.SHA256, &e.URL, &e.Source, &e.Label, &e.Path, &e.Bytes, &ts); err != nil {
			return nil, err
		}
		e.FetchedAt = time.Unix(ts, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

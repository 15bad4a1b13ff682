// Package store maintains the SQLite index of captured crash reports. The
// index is derived data: report files on disk are the source of truth, and
// Sync rebuilds rows from them at any time. Nothing here runs on the crash
// path.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

// ErrNotFound reports a lookup for an ID the index does not hold.
var ErrNotFound = errors.New("report not found")

// Report is one indexed crash report.
type Report struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	FileName   string    `json:"file_name"`
	CapturedAt time.Time `json:"captured_at"`
	Signal     int       `json:"signal"`
	Reason     string    `json:"reason"`
	Message    string    `json:"message,omitempty"`
	Frames     int       `json:"frames"`
	SizeBytes  int64     `json:"size_bytes"`
	IndexedAt  time.Time `json:"indexed_at"`
}

// Store is the SQLite-backed report index.
type Store struct {
	dbPath string
	db     *sql.DB
	mu     sync.RWMutex
}

// Open opens (creating if needed) the index database and runs migrations.
func Open(dbPath string) (*Store, error) {
	s := &Store{dbPath: dbPath}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	// WAL mode so API reads do not block watcher writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	s.db = db

	if err := s.migrate(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("running migrations: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the index database path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		// Table doesn't exist yet, run initial migration
		version = 0
	}

	if version < 1 {
		if _, err := s.db.Exec(migrationV1); err != nil {
			return fmt.Errorf("applying migration v1: %w", err)
		}
	}

	return nil
}

// List returns all indexed reports, newest first.
func (s *Store) List(ctx context.Context) ([]Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, file_name, captured_at, signal, reason, message, frames, size_bytes, indexed_at
		FROM reports
		ORDER BY captured_at DESC, file_name DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}

	return reports, nil
}

// Get returns the report with the given ID, or nil when unknown.
func (s *Store) Get(ctx context.Context, id string) (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, file_name, captured_at, signal, reason, message, frames, size_bytes, indexed_at
		FROM reports WHERE id = ?
	`, id)

	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading report: %w", err)
	}
	return &r, nil
}

// Latest returns the most recently captured report, or nil when the index
// is empty.
func (s *Store) Latest(ctx context.Context) (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, file_name, captured_at, signal, reason, message, frames, size_bytes, indexed_at
		FROM reports
		ORDER BY captured_at DESC, file_name DESC
		LIMIT 1
	`)

	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest report: %w", err)
	}
	return &r, nil
}

// Count returns the number of indexed reports.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting reports: %w", err)
	}
	return count, nil
}

// Delete removes a report row and its file. A missing file is not an
// error; a missing row is reported as one.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var path string
	err := s.db.QueryRowContext(ctx, "SELECT path FROM reports WHERE id = ?", id).Scan(&path)
	if err == sql.ErrNoRows {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading report path: %w", err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing report file: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting report row: %w", err)
	}
	return nil
}

// PruneKeep deletes the oldest reports, rows and files both, keeping the
// newest keep entries. Returns how many were removed.
func (s *Store) PruneKeep(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path FROM reports
		ORDER BY captured_at DESC, file_name DESC
		LIMIT -1 OFFSET ?
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("selecting prune candidates: %w", err)
	}

	type victim struct{ id, path string }
	var victims []victim
	for rows.Next() {
		var v victim
		if err := rows.Scan(&v.id, &v.path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning prune candidate: %w", err)
		}
		victims = append(victims, v)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterating prune candidates: %w", err)
	}
	rows.Close()

	removed := 0
	for _, v := range victims {
		if err := os.Remove(v.path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("removing report file %s: %w", v.path, err)
		}
		if _, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", v.id); err != nil {
			return removed, fmt.Errorf("deleting report row: %w", err)
		}
		removed++
	}

	return removed, nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var r Report
	err := row.Scan(
		&r.ID, &r.Path, &r.FileName, &r.CapturedAt,
		&r.Signal, &r.Reason, &r.Message, &r.Frames,
		&r.SizeBytes, &r.IndexedAt,
	)
	return r, err
}

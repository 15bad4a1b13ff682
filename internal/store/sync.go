package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/faultline/internal/report"
)

// Sync reconciles the index against the report files in dir. New files are
// parsed and inserted, changed files re-parsed, and rows whose files have
// vanished are dropped. Files that cannot be read are skipped until the
// next sync. Returns how many reports were added and removed.
func (s *Store) Sync(ctx context.Context, dir string) (added, removed int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return 0, 0, fmt.Errorf("reading reports directory: %w", err)
		}
		entries = nil
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !report.IsReportFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		seen[path] = true

		fresh, err := s.indexFile(ctx, path, entry.Name())
		if err != nil {
			// Unreadable or half-written file, try again next sync.
			continue
		}
		if fresh {
			added++
		}
	}

	n, err := s.dropVanished(ctx, seen)
	if err != nil {
		return added, 0, err
	}
	return added, n, nil
}

// indexFile parses one report file and upserts its row. Reports true when
// the path was not indexed before.
func (s *Store) indexFile(ctx context.Context, path, name string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening report: %w", err)
	}
	summary, err := report.ParseSummary(f)
	closeErr := f.Close()
	if err != nil {
		return false, fmt.Errorf("parsing report: %w", err)
	}
	if closeErr != nil {
		return false, fmt.Errorf("closing report: %w", closeErr)
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stating report: %w", err)
	}

	// The timestamp baked into the file name survives copies and backup
	// restores; modification time is only the fallback.
	capturedAt, ok := report.TimeFromFileName(name)
	if !ok {
		capturedAt = info.ModTime()
	}

	var existing int
	err = s.db.QueryRowContext(ctx, "SELECT 1 FROM reports WHERE path = ?", path).Scan(&existing)
	fresh := err == sql.ErrNoRows
	if err != nil && !fresh {
		return false, fmt.Errorf("checking index: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, path, file_name, captured_at, signal, reason, message, frames, size_bytes, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			file_name = excluded.file_name,
			captured_at = excluded.captured_at,
			signal = excluded.signal,
			reason = excluded.reason,
			message = excluded.message,
			frames = excluded.frames,
			size_bytes = excluded.size_bytes,
			indexed_at = excluded.indexed_at
	`, uuid.NewString(), path, name, capturedAt,
		summary.Signal, summary.Reason, summary.Message, summary.Frames,
		info.Size(), time.Now())
	if err != nil {
		return false, fmt.Errorf("indexing report: %w", err)
	}
	return fresh, nil
}

// dropVanished removes rows whose files are gone from disk.
func (s *Store) dropVanished(ctx context.Context, seen map[string]bool) (int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, path FROM reports")
	if err != nil {
		return 0, fmt.Errorf("listing indexed paths: %w", err)
	}

	var stale []string
	for rows.Next() {
		var id, path string
		if err := rows.Scan(&id, &path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning indexed path: %w", err)
		}
		if !seen[path] {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterating indexed paths: %w", err)
	}
	rows.Close()

	for _, id := range stale {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id); err != nil {
			return 0, fmt.Errorf("dropping vanished report: %w", err)
		}
	}
	return len(stale), nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/faultline/internal/report"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	s, err := Open(filepath.Join(tmpDir, "faultline.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, tmpDir
}

func writeTestReport(t *testing.T, dir, name, signal string, frames int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(report.HeaderOS + "\n")
	b.WriteString(" Name:    Linux\n")
	b.WriteString(" Release: 6.8.0-test\n\n")
	b.WriteString(report.HeaderReason + "\n")
	b.WriteString(" Signal:  " + signal + "\n")
	b.WriteString(" Message: test fault\n\n")
	b.WriteString(report.HeaderStack + "\n")
	for i := 0; i < frames; i++ {
		fmt.Fprintf(&b, " [%02d] 0x00000000004a1b2c main.run\n", i)
	}
	b.WriteString("\n")

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("writing test report: %v", err)
	}
	return path
}

func TestOpen_CreatesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "faultline.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.Path() != dbPath {
		t.Errorf("Path() = %s, want %s", s.Path(), dbPath)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file should exist after open: %v", err)
	}

	// Reopening must tolerate the already-applied migration.
	s2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() on existing database error = %v", err)
	}
	defer s2.Close()

	count, err := s2.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}
}

func TestStore_SyncIndexesReports(t *testing.T) {
	s, tmpDir := newTestStore(t)
	ctx := context.Background()

	writeTestReport(t, tmpDir, "crash-2026-08-23T10-00-00.log", "Segmentation fault (11)", 3)
	writeTestReport(t, tmpDir, "crash-2026-08-23T11-00-00.log", "Aborted (6)", 2)

	added, removed, err := s.Sync(ctx, tmpDir)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if added != 2 || removed != 0 {
		t.Errorf("Sync() = (%d, %d), want (2, 0)", added, removed)
	}

	reports, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("List() returned %d reports, want 2", len(reports))
	}

	// Newest first.
	if reports[0].FileName != "crash-2026-08-23T11-00-00.log" {
		t.Errorf("first report = %s, want the 11:00 capture", reports[0].FileName)
	}
	if reports[0].Signal != 6 {
		t.Errorf("Signal = %d, want 6", reports[0].Signal)
	}
	if reports[0].Reason != "Aborted" {
		t.Errorf("Reason = %q, want %q", reports[0].Reason, "Aborted")
	}
	if reports[1].Signal != 11 {
		t.Errorf("Signal = %d, want 11", reports[1].Signal)
	}
	if reports[1].Frames != 3 {
		t.Errorf("Frames = %d, want 3", reports[1].Frames)
	}
	if reports[1].Message != "test fault" {
		t.Errorf("Message = %q, want %q", reports[1].Message, "test fault")
	}
	if reports[1].SizeBytes == 0 {
		t.Error("SizeBytes should be set")
	}
	if reports[1].ID == "" {
		t.Error("ID should be assigned")
	}
}

func TestStore_SyncIsIdempotent(t *testing.T) {
	s, tmpDir := newTestStore(t)
	ctx := context.Background()

	writeTestReport(t, tmpDir, "crash-2026-08-23T10-00-00.log", "Segmentation fault (11)", 1)

	if _, _, err := s.Sync(ctx, tmpDir); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	first, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	added, removed, err := s.Sync(ctx, tmpDir)
	if err != nil {
		t.Fatalf("second Sync() error = %v", err)
	}
	if added != 0 || removed != 0 {
		t.Errorf("second Sync() = (%d, %d), want (0, 0)", added, removed)
	}

	second, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("List() returned %d reports, want 1", len(second))
	}
	if second[0].ID != first[0].ID {
		t.Errorf("resync changed the report ID: %s != %s", second[0].ID, first[0].ID)
	}
}

func TestStore_SyncDropsVanished(t *testing.T) {
	s, tmpDir := newTestStore(t)
	ctx := context.Background()

	path := writeTestReport(t, tmpDir, "crash-2026-08-23T10-00-00.log", "Segmentation fault (11)", 1)
	writeTestReport(t, tmpDir, "crash-2026-08-23T11-00-00.log", "Bus error (7)", 1)

	if _, _, err := s.Sync(ctx, tmpDir); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("removing report file: %v", err)
	}

	added, removed, err := s.Sync(ctx, tmpDir)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if added != 0 || removed != 1 {
		t.Errorf("Sync() = (%d, %d), want (0, 1)", added, removed)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestStore_SyncSkipsForeignFiles(t *testing.T) {
	s, tmpDir := newTestStore(t)
	ctx := context.Background()

	writeTestReport(t, tmpDir, "crash-2026-08-23T10-00-00.log", "Segmentation fault (11)", 1)
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("keep out\n"), 0o600); err != nil {
		t.Fatalf("writing foreign file: %v", err)
	}

	added, _, err := s.Sync(ctx, tmpDir)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if added != 1 {
		t.Errorf("Sync() added = %d, want 1", added)
	}
}

func TestStore_SyncMissingDirectory(t *testing.T) {
	s, tmpDir := newTestStore(t)
	ctx := context.Background()

	writeTestReport(t, tmpDir, "crash-2026-08-23T10-00-00.log", "Segmentation fault (11)", 1)
	if _, _, err := s.Sync(ctx, tmpDir); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	// A vanished directory empties the index instead of failing.
	added, removed, err := s.Sync(ctx, filepath.Join(tmpDir, "gone"))
	if err != nil {
		t.Fatalf("Sync() on missing directory error = %v", err)
	}
	if added != 0 || removed != 1 {
		t.Errorf("Sync() = (%d, %d), want (0, 1)", added, removed)
	}
}

func TestStore_CapturedAtFromFileName(t *testing.T) {
	s, tmpDir := newTestStore(t)
	ctx := context.Background()

	name := "crash-2026-08-23T10-30-45.log"
	writeTestReport(t, tmpDir, name, "Segmentation fault (11)", 1)

	if _, _, err := s.Sync(ctx, tmpDir); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	reports, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("List() returned %d reports, want 1", len(reports))
	}

	want, ok := report.TimeFromFileName(name)
	if !ok {
		t.Fatalf("TimeFromFileName(%q) not parseable", name)
	}
	if !reports[0].CapturedAt.Equal(want) {
		t.Errorf("CapturedAt = %v, want %v", reports[0].CapturedAt, want)
	}
}

func TestStore_GetAndLatest(t *testing.T) {
	s, tmpDir := newTestStore(t)
	ctx := context.Background()

	writeTestReport(t, tmpDir, "crash-2026-08-23T10-00-00.log", "Segmentation fault (11)", 1)
	writeTestReport(t, tmpDir, "crash-2026-08-23T11-00-00.log", "Floating point exception (8)", 1)

	if _, _, err := s.Sync(ctx, tmpDir); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest == nil {
		t.Fatal("Latest() = nil, want the 11:00 capture")
	}
	if latest.Signal != 8 {
		t.Errorf("Latest().Signal = %d, want 8", latest.Signal)
	}

	got, err := s.Get(ctx, latest.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.ID != latest.ID {
		t.Errorf("Get(%s) = %+v, want the latest report", latest.ID, got)
	}

	missing, err := s.Get(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("Get() on unknown ID error = %v", err)
	}
	if missing != nil {
		t.Errorf("Get() on unknown ID = %+v, want nil", missing)
	}
}

func TestStore_LatestEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	latest, err := s.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest != nil {
		t.Errorf("Latest() on empty index = %+v, want nil", latest)
	}
}

func TestStore_Delete(t *testing.T) {
	s, tmpDir := newTestStore(t)
	ctx := context.Background()

	path := writeTestReport(t, tmpDir, "crash-2026-08-23T10-00-00.log", "Segmentation fault (11)", 1)

	if _, _, err := s.Sync(ctx, tmpDir); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	reports, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if err := s.Delete(ctx, reports[0].ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("report file should be removed")
	}
	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}

	if err := s.Delete(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() on unknown ID = %v, want ErrNotFound", err)
	}
}

func TestStore_PruneKeep(t *testing.T) {
	s, tmpDir := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 23, 10, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		name := report.FileName(base.Add(time.Duration(i) * time.Minute))
		writeTestReport(t, tmpDir, name, "Segmentation fault (11)", 1)
	}

	if _, _, err := s.Sync(ctx, tmpDir); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	removed, err := s.PruneKeep(ctx, 2)
	if err != nil {
		t.Fatalf("PruneKeep() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("PruneKeep() removed = %d, want 3", removed)
	}

	reports, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("List() returned %d reports, want 2", len(reports))
	}

	// The two newest captures survive, on disk as well as in the index.
	for i, wantOffset := range []time.Duration{4 * time.Minute, 3 * time.Minute} {
		wantName := report.FileName(base.Add(wantOffset))
		if reports[i].FileName != wantName {
			t.Errorf("reports[%d].FileName = %s, want %s", i, reports[i].FileName, wantName)
		}
		if _, err := os.Stat(reports[i].Path); err != nil {
			t.Errorf("surviving report file missing: %v", err)
		}
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("reading reports directory: %v", err)
	}
	logs := 0
	for _, e := range entries {
		if report.IsReportFile(e.Name()) {
			logs++
		}
	}
	if logs != 2 {
		t.Errorf("%d report files on disk, want 2", logs)
	}
}

// Package watch keeps the report index in step with the reports directory.
// It watches the directory with fsnotify, debounces bursts of file events,
// and runs an index sync per quiet period, announcing newly captured
// reports on the event bus.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hugo-lorenzo-mato/faultline/internal/events"
	"github.com/hugo-lorenzo-mato/faultline/internal/report"
	"github.com/hugo-lorenzo-mato/faultline/internal/store"
)

const source = "watch"

// Watcher reconciles the index whenever the reports directory changes.
type Watcher struct {
	dir      string
	debounce time.Duration
	store    *store.Store
	bus      *events.Bus
	logger   *slog.Logger

	mu            sync.Mutex
	debounceTimer *time.Timer
	syncCh        chan struct{}

	// Report IDs already announced, so a resync never re-publishes
	// captured events for reports the bus has seen.
	known map[string]bool
}

// New creates a watcher over dir. A zero debounce falls back to 500ms.
func New(dir string, debounce time.Duration, st *store.Store, bus *events.Bus, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		store:    st,
		bus:      bus,
		logger:   logger,
		syncCh:   make(chan struct{}, 1), // Buffered to avoid blocking
		known:    make(map[string]bool),
	}
}

// Run watches until ctx is cancelled. The initial backlog of reports is
// indexed without captured-event announcements; only reports appearing
// while running are published.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return fmt.Errorf("creating reports directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	if err := w.seed(ctx); err != nil {
		return err
	}
	w.logger.Info("watching reports directory", "dir", w.dir, "debounce", w.debounce)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.scheduleSync()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-w.syncCh:
			w.sync(ctx)
		}
	}
}

// seed indexes whatever is already on disk and marks it known.
func (w *Watcher) seed(ctx context.Context) error {
	added, removed, err := w.store.Sync(ctx, w.dir)
	if err != nil {
		return fmt.Errorf("initial index sync: %w", err)
	}
	reports, err := w.store.List(ctx)
	if err != nil {
		return fmt.Errorf("listing index: %w", err)
	}
	for _, r := range reports {
		w.known[r.ID] = true
	}
	w.logger.Info("index seeded", "reports", len(reports), "added", added, "removed", removed)
	return nil
}

// relevant filters watcher noise down to report file changes.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return report.IsReportFile(filepath.Base(event.Name))
}

// scheduleSync debounces sync requests so a burst of writes costs one pass.
func (w *Watcher) scheduleSync() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		select {
		case w.syncCh <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
}

// sync runs one reconcile pass and publishes what changed.
func (w *Watcher) sync(ctx context.Context) {
	added, removed, err := w.store.Sync(ctx, w.dir)
	if err != nil {
		w.logger.Error("index sync failed", "error", err)
		return
	}
	if added == 0 && removed == 0 {
		return
	}

	reports, err := w.store.List(ctx)
	if err != nil {
		w.logger.Error("listing index after sync", "error", err)
		return
	}

	current := make(map[string]bool, len(reports))
	for _, r := range reports {
		current[r.ID] = true
		if w.known[r.ID] {
			continue
		}
		w.logger.Info("report captured",
			"file", r.FileName,
			"signal", r.Signal,
			"reason", r.Reason,
		)
		w.bus.PublishPriority(events.NewReportCapturedEvent(source, r.ID, r.FileName, r.Reason, r.Signal, r.Frames))
	}
	w.known = current

	w.bus.Publish(events.NewReportIndexedEvent(source, added, removed, len(reports)))
	w.logger.Debug("index synced", "added", added, "removed", removed, "total", len(reports))
}

package diagnostics

import (
	"context"
	"runtime"
	"testing"
	"time"
)

func TestTakeSnapshot(t *testing.T) {
	snapshot := TakeSnapshot()

	if snapshot.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
	if snapshot.Goroutines <= 0 {
		t.Error("expected positive goroutine count")
	}
	if snapshot.HeapAllocMB <= 0 {
		t.Error("expected positive heap allocation")
	}
	// FD counts may be 0 on platforms without a descriptor listing,
	// but taking the snapshot must never fail.
}

func TestCountFDs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("FD counting not available on Windows")
	}

	open, limit := CountFDs()
	if open <= 0 {
		t.Errorf("CountFDs() open = %d, want > 0", open)
	}
	if limit <= 0 {
		t.Errorf("CountFDs() limit = %d, want > 0", limit)
	}
	if open > limit {
		t.Errorf("CountFDs() open %d exceeds limit %d", open, limit)
	}
}

func TestNewSampler_Defaults(t *testing.T) {
	s := NewSampler(0, 0)
	if s.interval != 30*time.Second {
		t.Errorf("interval = %v, want 30s default", s.interval)
	}
	if s.historySize != 120 {
		t.Errorf("historySize = %d, want 120 default", s.historySize)
	}
}

func TestSampler_StartStop(t *testing.T) {
	s := NewSampler(50*time.Millisecond, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	time.Sleep(200 * time.Millisecond)

	history := s.History()
	if len(history) == 0 {
		t.Error("expected at least one snapshot in history")
	}

	if _, ok := s.Latest(); !ok {
		t.Error("Latest() ok = false after sampling")
	}

	s.Stop()
	s.Stop() // safe to call twice

	time.Sleep(60 * time.Millisecond)
	before := len(s.History())
	time.Sleep(150 * time.Millisecond)
	after := len(s.History())

	if after > before+1 {
		t.Errorf("snapshots should not be taken after Stop(): before=%d, after=%d", before, after)
	}
}

func TestSampler_HistoryBounded(t *testing.T) {
	s := NewSampler(time.Second, 3)

	for i := 0; i < 10; i++ {
		s.record(TakeSnapshot())
	}

	if got := len(s.History()); got != 3 {
		t.Errorf("len(History()) = %d, want 3", got)
	}
}

func TestSampler_Peaks(t *testing.T) {
	s := NewSampler(time.Second, 10)

	if _, _, ok := s.Peaks(); ok {
		t.Error("Peaks() ok = true before any sample")
	}

	s.record(ResourceSnapshot{HeapAllocMB: 10, OpenFDs: 5})
	s.record(ResourceSnapshot{HeapAllocMB: 42, OpenFDs: 17})
	s.record(ResourceSnapshot{HeapAllocMB: 20, OpenFDs: 3})

	heap, fds, ok := s.Peaks()
	if !ok {
		t.Fatal("Peaks() ok = false after samples")
	}
	if heap != 42 {
		t.Errorf("peak heap = %v, want 42", heap)
	}
	if fds != 17 {
		t.Errorf("peak fds = %d, want 17", fds)
	}
}

func TestSampler_Uptime(t *testing.T) {
	s := NewSampler(time.Second, 10)
	time.Sleep(10 * time.Millisecond)
	if s.Uptime() <= 0 {
		t.Error("Uptime() should be positive")
	}
}

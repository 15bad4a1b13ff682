package diagnostics

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ResourceSnapshot captures process resource state at a point in time.
type ResourceSnapshot struct {
	Timestamp    time.Time `json:"timestamp"`
	Goroutines   int       `json:"goroutines"`
	HeapAllocMB  float64   `json:"heap_alloc_mb"`
	HeapInUseMB  float64   `json:"heap_in_use_mb"`
	StackInUseMB float64   `json:"stack_in_use_mb"`
	NumGC        uint32    `json:"num_gc"`
	OpenFDs      int       `json:"open_fds"`
	MaxFDs       int       `json:"max_fds"`
}

// TakeSnapshot captures the current resource state.
func TakeSnapshot() ResourceSnapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	openFDs, maxFDs := CountFDs()

	return ResourceSnapshot{
		Timestamp:    time.Now(),
		Goroutines:   runtime.NumGoroutine(),
		HeapAllocMB:  float64(memStats.HeapAlloc) / 1024 / 1024,
		HeapInUseMB:  float64(memStats.HeapInuse) / 1024 / 1024,
		StackInUseMB: float64(memStats.StackInuse) / 1024 / 1024,
		NumGC:        memStats.NumGC,
		OpenFDs:      openFDs,
		MaxFDs:       maxFDs,
	}
}

// Sampler periodically records resource snapshots for long-running commands.
// Its history gives crash reports peak figures instead of only the state at
// the instant of the fault.
type Sampler struct {
	interval    time.Duration
	historySize int

	history []ResourceSnapshot
	mu      sync.RWMutex

	stopCh  chan struct{}
	stopped atomic.Bool
	started time.Time
}

// NewSampler creates a sampler. Zero or negative arguments fall back to a
// 30 second interval and 120 retained snapshots.
func NewSampler(interval time.Duration, historySize int) *Sampler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if historySize <= 0 {
		historySize = 120
	}
	return &Sampler{
		interval:    interval,
		historySize: historySize,
		history:     make([]ResourceSnapshot, 0, historySize),
		stopCh:      make(chan struct{}),
		started:     time.Now(),
	}
}

// Start begins periodic sampling until the context is cancelled or Stop is
// called. The first snapshot is taken immediately.
func (s *Sampler) Start(ctx context.Context) {
	go func() {
		s.record(TakeSnapshot())

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.record(TakeSnapshot())
			}
		}
	}()
}

// Stop halts the sampling loop. Safe to call more than once.
func (s *Sampler) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopCh)
	}
}

func (s *Sampler) record(snap ResourceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, snap)
	if len(s.history) > s.historySize {
		s.history = s.history[len(s.history)-s.historySize:]
	}
}

// Latest returns the most recent snapshot.
func (s *Sampler) Latest() (ResourceSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return ResourceSnapshot{}, false
	}
	return s.history[len(s.history)-1], true
}

// History returns a copy of the retained snapshots, oldest first.
func (s *Sampler) History() []ResourceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]ResourceSnapshot, len(s.history))
	copy(result, s.history)
	return result
}

// Peaks returns the highest heap allocation and descriptor count seen so
// far. The second return is false when nothing has been sampled yet.
func (s *Sampler) Peaks() (heapMB float64, fds int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return 0, 0, false
	}
	for _, snap := range s.history {
		if snap.HeapAllocMB > heapMB {
			heapMB = snap.HeapAllocMB
		}
		if snap.OpenFDs > fds {
			fds = snap.OpenFDs
		}
	}
	return heapMB, fds, true
}

// Uptime returns the time since the sampler was created.
func (s *Sampler) Uptime() time.Duration {
	return time.Since(s.started)
}

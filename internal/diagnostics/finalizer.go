package diagnostics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"log/slog"

	"github.com/hugo-lorenzo-mato/faultline/internal/crashlog"
	"github.com/hugo-lorenzo-mato/faultline/internal/report"
)

// BuildInfo identifies the binary that produced a report. Populated from
// the version variables the build injects.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Finalizer completes crash reports: it owns the capture buffer, appends
// the context sections after the core capture, persists the report
// atomically and rotates old ones. Wire its Finalize method into the crash
// handler; everything it needs on the fault path is prepared up front.
type Finalizer struct {
	dir      string
	maxFiles int
	logger   *slog.Logger

	buf     *report.Buffer
	build   BuildInfo
	sys     *SysInfo
	sampler *Sampler
	started time.Time

	fallback io.Writer
	now      func() time.Time

	mu sync.Mutex
}

// NewFinalizer creates a finalizer writing into dir, keeping at most
// maxFiles reports, capturing into a buffer of bufferCapacity bytes.
func NewFinalizer(dir string, maxFiles, bufferCapacity int, logger *slog.Logger) *Finalizer {
	if dir == "" {
		dir = filepath.Join(".faultline", "reports")
	}
	if maxFiles <= 0 {
		maxFiles = 10
	}
	if bufferCapacity <= 0 {
		bufferCapacity = crashlog.DefaultBufferCapacity
	}

	return &Finalizer{
		dir:      dir,
		maxFiles: maxFiles,
		logger:   logger,
		buf:      report.NewBuffer(bufferCapacity),
		sys:      NewSysInfo(),
		started:  time.Now(),
		fallback: os.Stderr,
		now:      time.Now,
	}
}

// SetBuildInfo records the binary identity for the version section.
func (f *Finalizer) SetBuildInfo(build BuildInfo) {
	f.build = build
}

// AttachSampler connects a running resource sampler so reports include
// peak figures.
func (f *Finalizer) AttachSampler(s *Sampler) {
	f.sampler = s
}

// Buffer returns the preallocated capture buffer. Hand it to the crash
// handler; the finalizer keeps ownership.
func (f *Finalizer) Buffer() *report.Buffer {
	return f.buf
}

// Dir returns the reports directory.
func (f *Finalizer) Dir() string {
	return f.dir
}

// Prime collects the cached system facts while the process is healthy.
func (f *Finalizer) Prime() {
	f.sys.Prime()
}

// Finalize appends the context sections and persists the report. It is the
// crash handler's finalization collaborator: best effort throughout, with a
// console fallback when the report cannot be written, and it never
// terminates anything itself.
func (f *Finalizer) Finalize(ev crashlog.FaultEvent, buf *report.Buffer) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.AppendSections(buf)

	path, err := f.write(buf)
	if err != nil {
		if f.logger != nil {
			f.logger.Error("writing crash report failed, dumping to console", "error", err)
		}
		_, _ = f.fallback.Write(buf.Bytes())
		return
	}

	if f.logger != nil {
		f.logger.Error("crash report written",
			"path", path,
			"signal", crashlog.Describe(ev.Signal),
			"truncated", buf.Truncated(),
		)
	}

	f.prune()
}

func (f *Finalizer) write(buf *report.Buffer) (string, error) {
	if err := os.MkdirAll(f.dir, 0o750); err != nil {
		return "", fmt.Errorf("creating reports dir: %w", err)
	}

	path := filepath.Join(f.dir, report.FileName(f.now()))
	if err := atomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("writing crash report: %w", err)
	}
	return path, nil
}

// prune removes the oldest reports beyond maxFiles. Report names embed the
// capture timestamp, so lexical order is chronological order.
func (f *Finalizer) prune() {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && report.IsReportFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) <= f.maxFiles {
		return
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-f.maxFiles] {
		path := filepath.Join(f.dir, name)
		if err := os.Remove(path); err != nil && f.logger != nil {
			f.logger.Warn("failed to remove old crash report", "path", path, "error", err)
		}
	}
}

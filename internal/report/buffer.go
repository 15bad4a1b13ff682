// Package report defines the crash report text contract: the bounded buffer
// diagnostic producers write into, the report file naming scheme, and a
// header-line parser for tooling that consumes finished reports.
package report

import "fmt"

// Buffer is a fixed-capacity append buffer for building a diagnostic report.
// All writes clamp at the capacity chosen at construction; a write that does
// not fit is truncated, never an error and never an overflow. The backing
// array is allocated once in NewBuffer so that writers running in a fault
// context do not have to allocate on the common path.
type Buffer struct {
	buf       []byte
	capacity  int
	truncated bool
}

// NewBuffer returns a Buffer that will never hold more than capacity bytes.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{buf: make([]byte, 0, capacity), capacity: capacity}
}

// Appendf appends formatted text to the buffer, truncating at capacity, and
// returns the new cursor position. Truncation is sticky and observable via
// Truncated.
func (b *Buffer) Appendf(format string, args ...any) int {
	b.buf = fmt.Appendf(b.buf, format, args...)
	if len(b.buf) > b.capacity {
		b.buf = b.buf[:b.capacity]
		b.truncated = true
	}
	return len(b.buf)
}

// Len returns the current cursor position.
func (b *Buffer) Len() int { return len(b.buf) }

// Cap returns the capacity bound.
func (b *Buffer) Cap() int { return b.capacity }

// Remaining returns how many bytes can still be appended before truncation.
func (b *Buffer) Remaining() int { return b.capacity - len(b.buf) }

// Truncated reports whether any append has been clamped.
func (b *Buffer) Truncated() bool { return b.truncated }

// Bytes returns the buffer contents. The slice aliases the internal storage
// and is only valid until the next append or Reset.
func (b *Buffer) Bytes() []byte { return b.buf }

// String returns the buffer contents as a string.
func (b *Buffer) String() string { return string(b.buf) }

// Reset clears the contents and the truncation flag, keeping the allocation.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.truncated = false
}

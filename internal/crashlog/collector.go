package crashlog

import (
	"github.com/hugo-lorenzo-mato/faultline/internal/report"
)

// Tunable capture bounds. Both can be overridden through options; the frame
// cap keeps output bounded even on corrupted or cyclic stacks.
const (
	DefaultMaxFrames      = 64
	DefaultBufferCapacity = 64 * 1024
)

// Collector produces the three core report sections. Each operation appends
// one complete section, including its trailing blank line, into the bounded
// buffer and returns the new cursor. Operations never fail outward: a failed
// query degrades to a one-line substitute inside the section.
type Collector interface {
	ReportOSVersion(b *report.Buffer) int
	ReportFaultReason(b *report.Buffer) int
	ReportStackTrace(b *report.Buffer) int
}

// collector is the concrete platform collector. ReportOSVersion and the
// default stack walker are supplied by the per-platform files.
type collector struct {
	event     FaultEvent
	maxFrames int
	walk      func(b *report.Buffer, maxFrames int)
}

// CollectorOption adjusts a collector built by New.
type CollectorOption func(*collector)

// WithMaxFrames caps the number of stack frames emitted.
func WithMaxFrames(n int) CollectorOption {
	return func(c *collector) {
		if n > 0 {
			c.maxFrames = n
		}
	}
}

// New returns the platform Collector for one fault event.
func New(event FaultEvent, opts ...CollectorOption) Collector {
	c := &collector{
		event:     event,
		maxFrames: DefaultMaxFrames,
		walk:      platformWalk,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReportFaultReason emits the crash reason section. It has no external
// dependency beyond the signal table, so it cannot fail.
func (c *collector) ReportFaultReason(b *report.Buffer) int {
	b.Appendf("%s\n", report.HeaderReason)
	b.Appendf(" Signal:  %s (%d)\n", Describe(c.event.Signal), Number(c.event.Signal))
	b.Appendf(" Message: %s\n", c.event.Message)
	return b.Appendf("\n")
}

// ReportStackTrace emits the stack trace section using the platform walker.
// The header always appears, even when the walker produces no body lines.
func (c *collector) ReportStackTrace(b *report.Buffer) int {
	b.Appendf("%s\n", report.HeaderStack)
	c.walk(b, c.maxFrames)
	return b.Appendf("\n")
}

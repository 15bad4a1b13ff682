package crashlog

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/hugo-lorenzo-mato/faultline/internal/report"
)

// Messages printed on the skip paths before termination. The first line is
// shared; path A prints two lines total, path B three.
const (
	msgFault    = "A serious fault condition occurred in the application. The application will shut down."
	msgRecovery = "As emergency recovery was already in progress no crash information will be generated."
	msgContent1 = "As the active session depends on content that is not available"
	msgContent2 = "no crash information will be generated."
)

// Handler runs the crash sequence: disarm the watch set, consult the skip
// predicates, capture the report, terminate. Construct one at startup and
// keep it for the life of the process; every field it needs on the fault
// path is prepared up front.
type Handler struct {
	out          io.Writer
	buf          *report.Buffer
	emergency    func() bool
	missing      func() bool
	newCollector func(FaultEvent) Collector
	finalize     func(FaultEvent, *report.Buffer)
	terminate    func()
	disarm       func()
}

// HandlerOption adjusts a Handler built by NewHandler.
type HandlerOption func(*Handler)

// WithOutput sets the writer for the skip-path messages. Default os.Stderr.
func WithOutput(w io.Writer) HandlerOption {
	return func(h *Handler) { h.out = w }
}

// WithBuffer hands the handler the report buffer to capture into. The
// finalization collaborator allocates it ahead of time and keeps ownership;
// the handler only borrows it for the episode.
func WithBuffer(b *report.Buffer) HandlerOption {
	return func(h *Handler) { h.buf = b }
}

// WithEmergencyCheck sets the predicate consulted first: is an emergency
// recovery already in progress? Must be side-effect-free and safe to call
// from the fault context.
func WithEmergencyCheck(f func() bool) HandlerOption {
	return func(h *Handler) { h.emergency = f }
}

// WithMissingContentCheck sets the predicate consulted second: does the
// active session depend on content this process does not have? Same safety
// requirements as the emergency check.
func WithMissingContentCheck(f func() bool) HandlerOption {
	return func(h *Handler) { h.missing = f }
}

// WithCollectorFactory overrides how the per-event Collector is built.
func WithCollectorFactory(f func(FaultEvent) Collector) HandlerOption {
	return func(h *Handler) { h.newCollector = f }
}

// WithFinalizer sets the report finalization collaborator. It receives the
// completed buffer right before termination; whatever it fails to do is not
// this package's concern.
func WithFinalizer(f func(FaultEvent, *report.Buffer)) HandlerOption {
	return func(h *Handler) { h.finalize = f }
}

// WithTerminator overrides the abnormal-termination primitive. Tests use
// this to observe the sequence without dying.
func WithTerminator(f func()) HandlerOption {
	return func(h *Handler) { h.terminate = f }
}

// NewHandler builds a Handler with the platform defaults: messages to
// stderr, a freshly allocated buffer, always-false predicates, the platform
// collector, a finalizer that prints the report to the output writer, and
// the real abort primitive.
func NewHandler(opts ...HandlerOption) *Handler {
	h := &Handler{
		out:          os.Stderr,
		emergency:    func() bool { return false },
		missing:      func() bool { return false },
		terminate:    abort,
		disarm:       func() { signal.Reset(watchSet...) },
		newCollector: func(ev FaultEvent) Collector { return New(ev) },
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.buf == nil {
		h.buf = report.NewBuffer(DefaultBufferCapacity)
	}
	if h.finalize == nil {
		h.finalize = func(_ FaultEvent, b *report.Buffer) {
			_, _ = h.out.Write(b.Bytes())
		}
	}
	return h
}

// Handle runs the crash sequence for a delivered signal. It does not return
// through any path that keeps the real terminator.
func (h *Handler) Handle(sig os.Signal) {
	h.HandleFault(FaultEvent{Signal: sig})
}

// HandleFault runs the crash sequence for an already-built event. Step
// order is fixed: disarm, emergency check, missing-content check, capture,
// terminate.
func (h *Handler) HandleFault(ev FaultEvent) {
	h.disarm()

	if h.emergency() {
		fmt.Fprintln(h.out, msgFault)
		fmt.Fprintln(h.out, msgRecovery)
		h.terminate()
		return
	}
	if h.missing() {
		fmt.Fprintln(h.out, msgFault)
		fmt.Fprintln(h.out, msgContent1)
		fmt.Fprintln(h.out, msgContent2)
		h.terminate()
		return
	}

	c := h.newCollector(ev)
	c.ReportOSVersion(h.buf)
	c.ReportFaultReason(h.buf)
	c.ReportStackTrace(h.buf)
	h.finalize(ev, h.buf)

	h.terminate()
}

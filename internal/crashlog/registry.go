package crashlog

import (
	"os"
	"os/signal"
	"runtime/debug"
	"sync/atomic"
)

// Seams for tests that must observe registration and termination without
// touching real process state.
var (
	notifySignals = signal.Notify
	resetSignals  = signal.Reset
	osExit        = os.Exit
)

// Registry owns the process-wide registration of the fault watch set.
// Exactly one should exist, created at startup and installed before any
// watched fault can occur.
type Registry struct {
	handler   *Handler
	ch        chan os.Signal
	installed atomic.Bool
	disarmed  atomic.Bool
}

// NewRegistry binds a registry to the handler that will receive deliveries.
// The handler's disarm step is taken over so registration state stays
// accurate once a crash episode begins.
func NewRegistry(h *Handler) *Registry {
	r := &Registry{handler: h}
	h.disarm = r.Disarm
	return r
}

// Install arms every signal in the watch set and starts the delivery
// goroutine. The first call wins; repeated calls are no-ops, so installation
// is idempotent. Arming is best-effort: platforms that cannot deliver a
// given fault signal simply never send it.
func (r *Registry) Install() {
	if !r.installed.CompareAndSwap(false, true) {
		return
	}
	moduleName() // resolve now, while allocation is still trustworthy
	r.ch = make(chan os.Signal, len(watchSet))
	notifySignals(r.ch, watchSet...)
	go r.run()
}

func (r *Registry) run() {
	for sig := range r.ch {
		r.handler.Handle(sig)
	}
}

// Disarm restores the default disposition for the whole watch set. A fault
// arriving afterwards falls through to the OS default instead of re-entering
// the handler; that is the re-entrancy guard for the crash sequence itself.
func (r *Registry) Disarm() {
	r.disarmed.Store(true)
	resetSignals(watchSet...)
}

// Installed reports whether Install has run.
func (r *Registry) Installed() bool { return r.installed.Load() }

// Armed reports whether deliveries currently reach the handler.
func (r *Registry) Armed() bool { return r.installed.Load() && !r.disarmed.Load() }

// InitThread prepares the calling goroutine for fault capture by arming
// fault-to-panic conversion, which the runtime scopes per goroutine. Call it
// at the top of any goroutine whose memory faults should produce a report
// instead of killing the process outright; redundant calls have no effect.
func (r *Registry) InitThread() {
	debug.SetPanicOnFault(true)
}

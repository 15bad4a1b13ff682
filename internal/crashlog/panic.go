package crashlog

import (
	"runtime"
	"strings"
	"syscall"
)

// RecoverAndCapture converts a recovered runtime fault on this goroutine
// into a crash episode on h. Defer it at goroutine entry points, typically
// after Registry.InitThread has armed fault-to-panic conversion:
//
//	registry.InitThread()
//	defer crashlog.RecoverAndCapture(handler)
//
// Only runtime faults are captured; any other panic is re-raised untouched.
func RecoverAndCapture(h *Handler) {
	v := recover()
	if v == nil {
		return
	}
	ev, ok := faultEvent(v)
	if !ok {
		panic(v)
	}
	h.HandleFault(ev)
}

// faultEvent maps a panic value onto a fault event. Memory faults, including
// those surfaced by SetPanicOnFault, carry an Addr method or the runtime's
// nil-dereference wording; arithmetic faults mention the zero divisor.
func faultEvent(v any) (FaultEvent, bool) {
	err, ok := v.(runtime.Error)
	if !ok {
		return FaultEvent{}, false
	}
	msg := err.Error()
	if _, hasAddr := v.(interface{ Addr() uintptr }); hasAddr {
		return FaultEvent{Signal: syscall.SIGSEGV, Message: msg}, true
	}
	switch {
	case strings.Contains(msg, "invalid memory address"):
		return FaultEvent{Signal: syscall.SIGSEGV, Message: msg}, true
	case strings.Contains(msg, "divide by zero"):
		return FaultEvent{Signal: syscall.SIGFPE, Message: msg}, true
	}
	return FaultEvent{}, false
}

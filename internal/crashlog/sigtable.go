package crashlog

import (
	"fmt"
	"os"
	"syscall"
)

// watchSet is the fixed set of fault signals the subsystem arms, in
// registration order.
var watchSet = []os.Signal{
	syscall.SIGSEGV,
	syscall.SIGABRT,
	syscall.SIGFPE,
	syscall.SIGBUS,
	syscall.SIGILL,
}

// descriptions carries the conventional strsignal wording for the watched
// set.
var descriptions = map[syscall.Signal]string{
	syscall.SIGSEGV: "Segmentation fault",
	syscall.SIGABRT: "Aborted",
	syscall.SIGFPE:  "Floating point exception",
	syscall.SIGBUS:  "Bus error",
	syscall.SIGILL:  "Illegal instruction",
}

// WatchSet returns the watched fault signals in registration order.
func WatchSet() []os.Signal {
	out := make([]os.Signal, len(watchSet))
	copy(out, watchSet)
	return out
}

// Describe returns a human-readable description for sig. Signals outside the
// watched set fall back to the runtime's name, and values the runtime cannot
// name come back in numeric form, so every input produces some string.
func Describe(sig os.Signal) string {
	s, ok := sig.(syscall.Signal)
	if !ok {
		if sig == nil {
			return "unknown signal"
		}
		return sig.String()
	}
	if d, ok := descriptions[s]; ok {
		return d
	}
	return s.String()
}

// Number returns the numeric identifier for sig, or -1 when it has none.
func Number(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return int(s)
	}
	return -1
}

// FaultEvent identifies one crash episode: the delivered signal and an
// optional free-text message from the trigger site. The signal path leaves
// Message empty; the panic bridge carries the panic text in it.
type FaultEvent struct {
	Signal  os.Signal
	Message string
}

func (e FaultEvent) String() string {
	return fmt.Sprintf("%s (%d)", Describe(e.Signal), Number(e.Signal))
}

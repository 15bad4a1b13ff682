// Package crashlog captures diagnostics when the process receives a fatal
// fault signal and then terminates the process abnormally.
//
// Components:
//   - Registry: process-wide signal registration; arms the watch set exactly
//     once and hands deliveries to the Handler.
//   - Handler: the crash sequence itself; disarms further delivery, consults
//     the skip predicates, drives a Collector, invokes the finalizer, and
//     terminates. It never returns to the faulting context.
//   - Collector: produces the three core report sections (operating system,
//     crash reason, stack trace) into a bounded report.Buffer. The stack
//     variant is chosen per platform at build time.
//   - RecoverAndCapture: bridges runtime fault panics (nil dereference,
//     divide by zero, panics armed by InitThread) into the same sequence.
//
// Everything on the crash path is written for a degraded process: only the
// preallocated buffer is written to, no locks are taken, and each section
// producer degrades to a substitute line instead of failing. Calls into the
// runtime's symbol tables and the kernel's version query carry no formal
// guarantee in this context and are accepted risks.
//
// The stack trace covers the goroutine the handler runs on. On the signal
// path that is the delivery goroutine; the panic bridge runs the sequence on
// the faulting goroutine itself.
package crashlog

// Package diagnostics finalizes crash reports and supplies the system
// context sections that follow the core capture.
//
// The package implements three main components:
//
//   - Finalizer: owns the preallocated report buffer, appends the version,
//     host, hardware, resource and environment sections after capture, and
//     persists the finished report atomically with rotation.
//
//   - SysInfo: caches host and hardware identity so the fault path formats
//     values that were collected while the process was still healthy.
//
//   - Sampler: periodically snapshots process resources for long-running
//     commands; its history feeds the peak figures in the resources section.
//
// Everything here is best-effort. A section that cannot be collected
// degrades to a substitute line; a report that cannot be persisted falls
// back to the console. Nothing in this package terminates the process.
package diagnostics

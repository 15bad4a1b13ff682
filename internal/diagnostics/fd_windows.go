//go:build windows

package diagnostics

// CountFDs returns the number of open file descriptors and the maximum
// allowed. Windows has no /proc/self/fd or /dev/fd equivalent; handle
// counting would need GetProcessHandleCount, so the pair 0, 0 marks the
// figures as unavailable and the resources section substitutes accordingly.
func CountFDs() (open, limit int) {
	return 0, 0
}

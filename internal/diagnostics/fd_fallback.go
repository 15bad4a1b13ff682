//go:build !linux && !darwin && !windows

package diagnostics

// CountFDs returns 0, 0 on platforms without a descriptor listing.
func CountFDs() (open, limit int) {
	return 0, 0
}

//go:build !unix && !windows

package crashlog

import (
	"github.com/hugo-lorenzo-mato/faultline/internal/report"
)

// platformWalk on platforms without stack facilities emits the explicit
// marker line.
func platformWalk(b *report.Buffer, maxFrames int) {
	walkUnsupported(b, maxFrames)
}

// ReportOSVersion has no version query on this platform and emits the
// substitute line.
func (c *collector) ReportOSVersion(b *report.Buffer) int {
	b.Appendf("Could not get OS version: not supported on this platform\n")
	return b.Appendf("\n")
}

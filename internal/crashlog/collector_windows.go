//go:build windows

package crashlog

import (
	"runtime"

	"golang.org/x/sys/windows"

	"github.com/hugo-lorenzo-mato/faultline/internal/report"
)

// platformWalk on Windows resolves raw counters to module!symbol+offset
// form, the shape Windows tooling expects.
func platformWalk(b *report.Buffer, maxFrames int) {
	walkPCs(b, moduleName(), maxFrames)
}

// ReportOSVersion emits the OS identification section from RtlGetVersion,
// which reports the true build regardless of compatibility manifests.
func (c *collector) ReportOSVersion(b *report.Buffer) int {
	info := windows.RtlGetVersion()
	b.Appendf("%s\n", report.HeaderOS)
	b.Appendf(" Name:     Windows\n")
	b.Appendf(" Release:  %d.%d\n", info.MajorVersion, info.MinorVersion)
	b.Appendf(" Version:  build %d\n", info.BuildNumber)
	b.Appendf(" Machine:  %s\n", runtime.GOARCH)
	return b.Appendf("\n")
}

//go:build unix

package crashlog

import (
	"bytes"

	"golang.org/x/sys/unix"

	"github.com/hugo-lorenzo-mato/faultline/internal/report"
)

// platformWalk on unix uses the runtime's frame iterator.
func platformWalk(b *report.Buffer, maxFrames int) {
	walkFrames(b, maxFrames)
}

// ReportOSVersion emits the OS identification section from uname(2). A
// failed query produces the one-line substitute instead of the block.
func (c *collector) ReportOSVersion(b *report.Buffer) int {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		b.Appendf("Could not get OS version: %s\n", err)
		return b.Appendf("\n")
	}
	b.Appendf("%s\n", report.HeaderOS)
	b.Appendf(" Name:     %s\n", nulTerminated(u.Sysname[:]))
	b.Appendf(" Release:  %s\n", nulTerminated(u.Release[:]))
	b.Appendf(" Version:  %s\n", nulTerminated(u.Version[:]))
	b.Appendf(" Machine:  %s\n", nulTerminated(u.Machine[:]))
	return b.Appendf("\n")
}

func nulTerminated(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

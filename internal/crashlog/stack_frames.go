package crashlog

import (
	"runtime"

	"github.com/hugo-lorenzo-mato/faultline/internal/report"
)

// callersSkip hides runtime.Callers and the walker itself; the trace starts
// at the section producer so handler frames stay visible, matching what the
// report consumer sees in a real episode.
const callersSkip = 2

// walkFrames emits one numbered line per frame using the runtime's frame
// iterator, innermost first. Addresses the iterator cannot attribute to a
// function degrade to a raw-address line.
func walkFrames(b *report.Buffer, maxFrames int) {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(callersSkip, pcs)
	if n == 0 {
		return
	}
	frames := runtime.CallersFrames(pcs[:n])
	for i := 0; i < maxFrames; i++ {
		frame, more := frames.Next()
		if frame.PC == 0 && !more {
			break
		}
		if frame.Function == "" {
			b.Appendf(" [%02d] [0x%x]\n", i, frame.PC)
		} else {
			b.Appendf(" [%02d] %s [0x%x] (%s:%d)\n", i, frame.Function, frame.PC, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
}

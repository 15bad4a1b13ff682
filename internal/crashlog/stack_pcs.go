package crashlog

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/hugo-lorenzo-mato/faultline/internal/report"
)

// moduleName resolves the executable base name once. Registry.Install warms
// it so the fault path only performs the atomic load.
var moduleName = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		return "?"
	}
	return filepath.Base(exe)
})

// walkPCs captures raw program counters and resolves each against the
// runtime's symbol tables, emitting module, symbol, byte offset and address
// per frame. Counters without symbol information degrade to the raw address.
// An empty capture means the execution context could not be read at all, and
// says so explicitly.
func walkPCs(b *report.Buffer, module string, maxFrames int) {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(callersSkip, pcs)
	if n == 0 {
		b.Appendf(" could not obtain context\n")
		return
	}
	for i, pc := range pcs[:n] {
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			b.Appendf(" [%02d] [0x%x]\n", i, pc)
			continue
		}
		b.Appendf(" [%02d] %s(%s+0x%x) [0x%x]\n", i, module, fn.Name(), pc-fn.Entry(), pc)
	}
}

// walkUnsupported is the variant for platforms without any stack facility.
// The marker line keeps reports diff-comparable across platforms.
func walkUnsupported(b *report.Buffer, _ int) {
	b.Appendf(" Not supported.\n")
}

package diagnostics

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/hugo-lorenzo-mato/faultline/internal/report"
)

// AppendSections writes the supplemented context sections after the core
// capture: version, host, hardware, resources, environment. Sections follow
// the report contract shape so header-line parsers pick them up.
func (f *Finalizer) AppendSections(buf *report.Buffer) {
	f.appendVersionSection(buf)
	f.appendHostSection(buf)
	f.appendHardwareSection(buf)
	f.appendResourcesSection(buf)
	f.appendEnvironmentSection(buf)
}

func (f *Finalizer) appendVersionSection(buf *report.Buffer) {
	buf.Appendf("%s\n", report.HeaderVersion)
	buf.Appendf(" Version:  %s\n", orUnknown(f.build.Version))
	buf.Appendf(" Commit:   %s\n", orUnknown(f.build.Commit))
	buf.Appendf(" Built:    %s\n", orUnknown(f.build.Date))
	buf.Appendf(" Go:       %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	buf.Appendf("\n")
}

func (f *Finalizer) appendHostSection(buf *report.Buffer) {
	buf.Appendf("%s\n", report.HeaderHost)

	facts, err := f.sys.Host()
	if err != nil {
		buf.Appendf(" Not available: %s\n\n", err)
		return
	}

	buf.Appendf(" Hostname:  %s\n", facts.Hostname)
	buf.Appendf(" Platform:  %s\n", facts.Platform)
	buf.Appendf(" Kernel:    %s\n", facts.Kernel)
	buf.Appendf(" Uptime:    %s\n", facts.Uptime.Round(time.Second))
	buf.Appendf("\n")
}

func (f *Finalizer) appendHardwareSection(buf *report.Buffer) {
	buf.Appendf("%s\n", report.HeaderHW)

	facts, err := f.sys.Hardware()
	if err != nil {
		buf.Appendf(" Not available: %s\n\n", err)
		return
	}

	buf.Appendf(" CPU:  %s (%d cores, %d threads)\n", orUnknown(facts.CPUModel), facts.Cores, facts.Threads)
	if len(facts.GPUs) == 0 {
		buf.Appendf(" GPU:  none detected\n")
	}
	for _, gpu := range facts.GPUs {
		buf.Appendf(" GPU:  %s\n", gpu)
	}
	buf.Appendf("\n")
}

func (f *Finalizer) appendResourcesSection(buf *report.Buffer) {
	buf.Appendf("%s\n", report.HeaderRes)

	snap := TakeSnapshot()
	buf.Appendf(" Goroutines:  %d\n", snap.Goroutines)
	buf.Appendf(" Heap:        %.1f MB alloc, %.1f MB inuse\n", snap.HeapAllocMB, snap.HeapInUseMB)
	buf.Appendf(" GC cycles:   %d\n", snap.NumGC)
	if snap.MaxFDs > 0 {
		buf.Appendf(" Open FDs:    %d / %d\n", snap.OpenFDs, snap.MaxFDs)
	} else {
		buf.Appendf(" Open FDs:    not available\n")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		buf.Appendf(" System mem:  %.0f MB used / %.0f MB total (%.1f%%)\n",
			float64(vm.Used)/1024/1024, float64(vm.Total)/1024/1024, vm.UsedPercent)
	}

	if f.sampler != nil {
		if peakHeap, peakFDs, ok := f.sampler.Peaks(); ok {
			buf.Appendf(" Peak heap:   %.1f MB\n", peakHeap)
			if peakFDs > 0 {
				buf.Appendf(" Peak FDs:    %d\n", peakFDs)
			}
		}
	}

	buf.Appendf(" Uptime:      %s\n", time.Since(f.started).Round(time.Second))
	buf.Appendf("\n")
}

func (f *Finalizer) appendEnvironmentSection(buf *report.Buffer) {
	buf.Appendf("%s\n", report.HeaderEnv)
	for _, line := range RedactEnviron(os.Environ()) {
		buf.Appendf(" %s\n", line)
	}
	buf.Appendf("\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

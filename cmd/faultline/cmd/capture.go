package cmd

import (
	"os"

	"github.com/hugo-lorenzo-mato/faultline/internal/config"
	"github.com/hugo-lorenzo-mato/faultline/internal/crashlog"
	"github.com/hugo-lorenzo-mato/faultline/internal/diagnostics"
)

// newCaptureHandler wires the crash handler from configuration: the capture
// buffer and finalization from fin, the skip predicates from the capture
// section.
func newCaptureHandler(cfg *config.Config, fin *diagnostics.Finalizer) *crashlog.Handler {
	return crashlog.NewHandler(
		crashlog.WithBuffer(fin.Buffer()),
		crashlog.WithFinalizer(fin.Finalize),
		crashlog.WithCollectorFactory(collectorFactory(cfg.Reports.MaxFrames)),
		crashlog.WithEmergencyCheck(recoveryMarkerCheck(cfg.Capture.RecoveryMarker)),
		crashlog.WithMissingContentCheck(requiredPathsCheck(cfg.Capture.RequiredPaths)),
	)
}

func collectorFactory(maxFrames int) func(crashlog.FaultEvent) crashlog.Collector {
	return func(ev crashlog.FaultEvent) crashlog.Collector {
		return crashlog.New(ev, crashlog.WithMaxFrames(maxFrames))
	}
}

// recoveryMarkerCheck reports an emergency recovery in progress while the
// marker file exists. A single stat, safe inside the restricted signal
// context.
func recoveryMarkerCheck(marker string) func() bool {
	if marker == "" {
		return func() bool { return false }
	}
	return func() bool {
		_, err := os.Stat(marker)
		return err == nil
	}
}

// requiredPathsCheck reports missing session content: true when any of the
// configured paths no longer exists.
func requiredPathsCheck(paths []string) func() bool {
	if len(paths) == 0 {
		return func() bool { return false }
	}
	return func() bool {
		for _, p := range paths {
			if _, err := os.Stat(p); err != nil {
				return true
			}
		}
		return false
	}
}

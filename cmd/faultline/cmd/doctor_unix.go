//go:build unix

package cmd

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/hugo-lorenzo-mato/faultline/internal/config"
)

// checkCoreLimit reports the core dump rlimit. Reports are written by the
// handler either way; the limit only affects OS core files alongside them.
func checkCoreLimit(_ *config.Config) (string, error) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_CORE, &rl); err != nil {
		return "", fmt.Errorf("cannot read RLIMIT_CORE: %w", err)
	}
	if rl.Cur == unix.RLIM_INFINITY {
		return "unlimited", nil
	}
	if rl.Cur == 0 {
		return "0 (OS core dumps disabled; reports unaffected)", nil
	}
	return fmt.Sprintf("%d bytes", rl.Cur), nil
}

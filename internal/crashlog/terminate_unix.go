//go:build unix

package crashlog

import (
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// abortExitCode is the conventional shell encoding for death by SIGABRT,
// used only when the re-raised signal cannot be delivered.
const abortExitCode = 128 + int(syscall.SIGABRT)

// abort ends the process abnormally. The abort signal is re-raised with its
// default disposition restored, so the OS records its usual fault artifacts
// (core dump where enabled); the exit call is the fallback when delivery
// fails.
func abort() {
	signal.Reset(syscall.SIGABRT)
	_ = unix.Kill(unix.Getpid(), unix.SIGABRT)
	osExit(abortExitCode)
}

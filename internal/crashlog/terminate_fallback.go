//go:build !unix && !windows

package crashlog

// 128 + SIGABRT, kept literal where syscall may not define the constant.
const abortExitCode = 134

func abort() {
	osExit(abortExitCode)
}

//go:build windows

package crashlog

// abortExitCode matches the C runtime's abort() exit status on Windows.
const abortExitCode = 3

func abort() {
	osExit(abortExitCode)
}

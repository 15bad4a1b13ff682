//go:build unix

package cmd

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func raiseSignal(sig syscall.Signal) error {
	return unix.Kill(unix.Getpid(), sig)
}

//go:build !unix

package cmd

import (
	"errors"
	"syscall"
)

func raiseSignal(_ syscall.Signal) error {
	return errors.New("selftest signal delivery requires a unix platform")
}

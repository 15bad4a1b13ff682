// Package clip copies report text to the clipboard for the show and browse
// commands. When no clipboard is reachable the text still ends up somewhere
// retrievable, a temp file, so a copy request never simply vanishes.
package clip

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	atotto "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// Method names the mechanism that made the content copyable. MethodFile
// means the clipboard itself was unreachable; FilePath holds the content.
type Method string

const (
	MethodNative Method = "native" // OS clipboard
	MethodOSC52  Method = "osc52"  // terminal clipboard escape, survives SSH
	MethodFile   Method = "file"   // temp file fallback
)

// Result reports how WriteAll delivered the text.
type Result struct {
	Method   Method
	FilePath string // set only for MethodFile
}

// Seams for tests; stubbing these exercises the cascade without a display.
var (
	nativeWriteAll = func(text string) error { return atotto.WriteAll(text) }
	osc52WriteAll  = writeAllOSC52
)

// WriteAll copies text through the first mechanism that works: the native
// clipboard, then an OSC52 escape to the controlling terminal, then a temp
// file. Only a failure to write the temp file surfaces as an error.
func WriteAll(text string) (Result, error) {
	if nativeWriteAll(text) == nil {
		return Result{Method: MethodNative}, nil
	}
	if osc52WriteAll(text) == nil {
		return Result{Method: MethodOSC52}, nil
	}

	path, err := writeTempFile(text)
	if err != nil {
		return Result{}, fmt.Errorf("clipboard unavailable and temp file failed: %w", err)
	}
	return Result{Method: MethodFile, FilePath: path}, nil
}

// Probe reports the method WriteAll would most likely use, without touching
// the clipboard. Used by environment checks.
func Probe() Method {
	if !atotto.Unsupported {
		return MethodNative
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return MethodOSC52
	}
	return MethodFile
}

// Terminals enforce their own OSC52 caps; a full report with an environment
// section runs long, so the limit is generous but bounded.
const osc52LimitBytes = 100_000

func writeAllOSC52(text string) error {
	switch {
	case text == "":
		return errors.New("empty clipboard text")
	case len(text) > osc52LimitBytes:
		return fmt.Errorf("text too large for OSC52 (%d bytes > %d)", len(text), osc52LimitBytes)
	case !term.IsTerminal(int(os.Stderr.Fd())):
		return errors.New("stderr is not a terminal")
	}

	seq := osc52.New(text).Limit(osc52LimitBytes)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case os.Getenv("STY") != "":
		seq = seq.Screen()
	}

	// Stderr keeps the escape out of the bubbletea stdout renderer.
	_, err := seq.WriteTo(os.Stderr)
	return err
}

func writeTempFile(text string) (string, error) {
	f, err := os.CreateTemp("", "faultline-report-*.txt")
	if err != nil {
		return "", err
	}
	path := f.Name()

	_, werr := f.WriteString(text)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		if werr != nil {
			return "", werr
		}
		return "", cerr
	}
	return filepath.Clean(path), nil
}

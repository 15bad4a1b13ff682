// Package fsutil contains scoped filesystem reads for serving report files.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadDirFile reads the file called name from inside dir, refusing symlinks
// so the read cannot traverse outside it. name must be a bare file name;
// anything with a path separator or a relative hop is rejected.
func ReadDirFile(dir, name string) ([]byte, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid file name: %q", name)
	}

	path := filepath.Join(dir, name)
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("invalid file name: %q", name)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// Package fileutil provides the filesystem helpers behind the TeX driver's
// scratch workspace.
package fileutil

import (
	"fmt"
	"os"
)

// MakeScratchDir creates a fresh scratch workspace directory for a single
// render pass, under parentDir (or the OS default temp directory when
// parentDir is empty, per work_dir's documented default). The caller owns
// the returned cleanup function.
func MakeScratchDir(parentDir string) (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp(parentDir, "texlens-scratch-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(dir) }
	return dir, cleanup, nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Package texrun invokes a TeX engine (pdflatex, xelatex, lualatex) as a
// subprocess, abstracted behind a Runner interface so driver.go can be
// tested without a real TeX installation.
package texrun

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/texlens/texlens/internal/process"
)

// Runner abstracts subprocess execution so the TeX Driver can be tested
// without shelling out to a real engine.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner implements Runner using os/exec, running the command in its
// own process group (setpgid_unix.go/setpgid_windows.go) so a cancelled
// context kills the whole subprocess tree, not just the direct child.
type ExecRunner struct{}

// Run executes name with args in dir and returns its captured stdout/stderr.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// TeX can fork auxiliary processes (shell-escape, epstopdf). The default
	// exec.Cmd.Cancel only signals the direct child; killing the whole
	// process group catches stragglers left behind on cancellation.
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("texrun: starting %s: %w", name, err)
	}

	err := cmd.Wait()
	return stdout.Bytes(), stderr.Bytes(), err
}

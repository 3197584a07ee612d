// Package dvisvgm invokes dvisvgm (PDF to SVG) as a subprocess, abstracted
// behind a Runner interface with the same shape as internal/texrun so
// svggen.go can be tested without a real dvisvgm installation.
package dvisvgm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/texlens/texlens/internal/process"
)

// Runner abstracts subprocess execution so the SVG Generator can be tested
// without shelling out to a real dvisvgm binary.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// Run executes name with args in dir and returns its captured stdout/stderr.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("dvisvgm: starting %s: %w", name, err)
	}

	err := cmd.Wait()
	return stdout.Bytes(), stderr.Bytes(), err
}

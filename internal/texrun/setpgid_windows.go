//go:build windows

package texrun

import "os/exec"

// setProcessGroup is a no-op on Windows; cancellation kills the process
// tree via taskkill /T (internal/process) instead of a process-group
// signal.
func setProcessGroup(cmd *exec.Cmd) {}

//go:build !windows

package texrun

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the TeX engine in its own process group so the
// driver can kill the whole subprocess tree on cancellation.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

//go:build windows

package dvisvgm

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}

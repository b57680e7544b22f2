//go:build !windows

package speech

import (
	"os/exec"
	"syscall"
)

func suspend(cmd *exec.Cmd) error {
	return cmd.Process.Signal(syscall.SIGSTOP)
}

func resume(cmd *exec.Cmd) error {
	return cmd.Process.Signal(syscall.SIGCONT)
}

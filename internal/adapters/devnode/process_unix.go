//go:build unix

package devnode

import (
	"errors"
	"os/exec"
	"syscall"
)

// detach starts the node in its own session so it survives the CLI exiting
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

func terminate(pid int) error {
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		return err
	}
	return nil
}

func kill(pid int) {
	_ = syscall.Kill(pid, syscall.SIGKILL)
}

// processAlive sends signal 0 to check for the process
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

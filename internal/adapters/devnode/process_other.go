//go:build !unix

package devnode

import (
	"os"
	"os/exec"
)

// detach is a no-op where sessions do not exist
func detach(cmd *exec.Cmd) {}

// terminate kills outright, there is no SIGTERM to send
func terminate(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	return p.Kill()
}

func kill(pid int) {
	_ = terminate(pid)
}

// processAlive reports whether pid can still be looked up
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	_, err := os.FindProcess(pid)
	return err == nil
}

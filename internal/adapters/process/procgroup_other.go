//go:build !unix

package process

import "os/exec"

// configureProcessGroup keeps the default CommandContext kill on platforms
// without process groups.
func configureProcessGroup(cmd *exec.Cmd) {}

//go:build !windows

package shell

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureProcessGroup starts the command in its own process group so a
// timeout kills Homebrew together with the children it spawned.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
}

// isExecutable asks the kernel whether the current user may execute path
func isExecutable(path string) bool {
	return unix.Access(path, unix.X_OK) == nil
}

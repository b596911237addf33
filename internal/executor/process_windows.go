// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Windows-specific process handling

//go:build windows

package executor

import (
	"os/exec"
)

// setPlatformProcessGroup configures platform-specific process attributes.
// Windows doesn't use Unix-style process groups.
func setPlatformProcessGroup(cmd *exec.Cmd) {
}

// killProcessGroup kills the process. On Windows Process.Kill calls
// TerminateProcess.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// interruptProcessGroup attempts to stop the process. Windows has no
// clean way to send Ctrl+C to a process without a console, so this
// falls back to Kill.
func interruptProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Unix process group handling for whole-tree termination

//go:build !windows

package executor

import (
	"os/exec"
	"syscall"
)

// setPlatformProcessGroup runs the command in its own process group so
// any children the tool spawns (provider plugins, helpers) die with it.
func setPlatformProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// killProcessGroup sends SIGKILL to the whole process group.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		return cmd.Process.Kill()
	}
	return syscall.Kill(-pgid, syscall.SIGKILL)
}

// interruptProcessGroup sends SIGINT to the whole process group, giving
// the tool a chance to release its own state locks before the kill.
func interruptProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		return cmd.Process.Signal(syscall.SIGINT)
	}
	return syscall.Kill(-pgid, syscall.SIGINT)
}

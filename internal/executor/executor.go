// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Bounded subprocess execution with captured streams

package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultGracePeriod is how long a process group gets between SIGINT and
// SIGKILL when its budget expires.
const DefaultGracePeriod = 3 * time.Second

// Executor spawns external tool processes bound to a workspace
// directory. It is stateless and safe for concurrent use.
type Executor struct {
	Timeout     time.Duration // wall-clock budget per invocation
	OutputLimit int           // max captured bytes per stream
	ExtraEnv    []string      // appended to the inherited environment
	GracePeriod time.Duration // zero means DefaultGracePeriod
	ScrubOutput bool          // strip ANSI and control characters
}

// Invocation is one fully built command line. Args never pass through a
// shell; the argv is handed to the kernel as-is.
type Invocation struct {
	Binary  string
	Args    []string
	Dir     string
	Timeout time.Duration // optional override, capped by Executor.Timeout
}

// Result is the raw outcome of a finished (or failed-to-start) process.
type Result struct {
	Started   bool
	ExitCode  int
	Stdout    string
	Stderr    string
	Duration  time.Duration
	Truncated bool
	TimedOut  bool
	Cancelled bool
	SpawnErr  error
}

// Run executes the invocation with its working directory set to inv.Dir.
// On timeout or context cancellation the whole process group is
// interrupted, then killed after the grace period. Output is captured in
// full up to the configured cap.
func (e *Executor) Run(ctx context.Context, inv Invocation) *Result {
	res := &Result{ExitCode: -1}
	start := time.Now()

	timeout := e.Timeout
	if inv.Timeout > 0 && inv.Timeout < timeout {
		timeout = inv.Timeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.Command(inv.Binary, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), e.ExtraEnv...)
	setPlatformProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		res.SpawnErr = err
		res.Duration = time.Since(start)
		return res
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		res.SpawnErr = err
		res.Duration = time.Since(start)
		return res
	}

	outBuf := &cappedBuffer{limit: e.OutputLimit}
	errBuf := &cappedBuffer{limit: e.OutputLimit}

	if err := cmd.Start(); err != nil {
		res.SpawnErr = err
		res.Duration = time.Since(start)
		return res
	}
	res.Started = true

	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(outBuf, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(errBuf, stderr)
		return err
	})

	done := make(chan error, 1)
	exited := make(chan struct{})
	go func() {
		_ = g.Wait()
		err := cmd.Wait()
		close(exited)
		done <- err
	}()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-runCtx.Done():
		e.terminate(cmd, exited)
		waitErr = <-done
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			res.TimedOut = true
		} else {
			res.Cancelled = true
		}
	}

	res.Stdout = outBuf.String()
	res.Stderr = errBuf.String()
	res.Truncated = outBuf.truncated || errBuf.truncated
	if e.ScrubOutput {
		res.Stdout = Scrub(res.Stdout)
		res.Stderr = Scrub(res.Stderr)
	}
	res.Duration = time.Since(start)

	switch {
	case waitErr == nil:
		res.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
	}
	return res
}

// terminate interrupts the process group, then kills it if it outlives
// the grace period.
func (e *Executor) terminate(cmd *exec.Cmd, exited <-chan struct{}) {
	_ = interruptProcessGroup(cmd)

	grace := e.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-exited:
	case <-timer.C:
		_ = killProcessGroup(cmd)
	}
}

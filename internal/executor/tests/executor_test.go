// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Tests for the process executor

//go:build !windows

package tests

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sony-level/tf-broker/internal/executor"
)

func newExecutor() *executor.Executor {
	return &executor.Executor{
		Timeout:     10 * time.Second,
		OutputLimit: 1 << 20,
		GracePeriod: 200 * time.Millisecond,
	}
}

func TestRunCapturesStdout(t *testing.T) {
	exe := newExecutor()

	res := exe.Run(context.Background(), executor.Invocation{
		Binary: "sh",
		Args:   []string{"-c", "echo hello; echo oops >&2"},
		Dir:    t.TempDir(),
	})

	if res.ExitCode != 0 {
		t.Fatalf("Expected exit 0, got %d (spawn err: %v)", res.ExitCode, res.SpawnErr)
	}
	if strings.TrimSpace(res.Stdout) != "hello" {
		t.Errorf("Unexpected stdout: %q", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "oops" {
		t.Errorf("Unexpected stderr: %q", res.Stderr)
	}
	if res.Duration <= 0 {
		t.Error("Expected a positive duration")
	}
}

func TestRunReportsExitCode(t *testing.T) {
	exe := newExecutor()

	res := exe.Run(context.Background(), executor.Invocation{
		Binary: "sh",
		Args:   []string{"-c", "exit 3"},
		Dir:    t.TempDir(),
	})

	if res.ExitCode != 3 {
		t.Errorf("Expected exit 3, got %d", res.ExitCode)
	}
	if res.TimedOut || res.Cancelled {
		t.Error("Plain failure must not be flagged as timeout or cancellation")
	}
}

func TestRunTimeout(t *testing.T) {
	exe := newExecutor()
	exe.Timeout = 200 * time.Millisecond

	start := time.Now()
	res := exe.Run(context.Background(), executor.Invocation{
		Binary: "sh",
		Args:   []string{"-c", "sleep 30"},
		Dir:    t.TempDir(),
	})

	if !res.TimedOut {
		t.Fatal("Expected the invocation to time out")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Timeout took too long to enforce: %v", elapsed)
	}
}

func TestRunTimeoutKillsChildren(t *testing.T) {
	exe := newExecutor()
	exe.Timeout = 200 * time.Millisecond

	// The trap makes the shell ignore SIGINT so only the group kill can
	// reap it and its child.
	res := exe.Run(context.Background(), executor.Invocation{
		Binary: "sh",
		Args:   []string{"-c", "trap '' INT; sleep 30 & wait"},
		Dir:    t.TempDir(),
	})

	if !res.TimedOut {
		t.Fatal("Expected the invocation to time out")
	}
}

func TestRunCancellation(t *testing.T) {
	exe := newExecutor()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	res := exe.Run(ctx, executor.Invocation{
		Binary: "sh",
		Args:   []string{"-c", "sleep 30"},
		Dir:    t.TempDir(),
	})

	if !res.Cancelled {
		t.Error("Expected the invocation to be flagged cancelled")
	}
	if res.TimedOut {
		t.Error("Cancellation must not be reported as a timeout")
	}
}

func TestRunSpawnError(t *testing.T) {
	exe := newExecutor()

	res := exe.Run(context.Background(), executor.Invocation{
		Binary: "definitely-not-a-real-binary-name",
		Dir:    t.TempDir(),
	})

	if res.SpawnErr == nil {
		t.Fatal("Expected a spawn error")
	}
	if res.Started {
		t.Error("A failed spawn must not be flagged as started")
	}
	if res.ExitCode != -1 {
		t.Errorf("Expected sentinel exit code -1, got %d", res.ExitCode)
	}
}

func TestRunOutputCap(t *testing.T) {
	exe := newExecutor()
	exe.OutputLimit = 1024

	res := exe.Run(context.Background(), executor.Invocation{
		Binary: "sh",
		Args:   []string{"-c", "i=0; while [ $i -lt 1000 ]; do echo aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa; i=$((i+1)); done"},
		Dir:    t.TempDir(),
	})

	if res.ExitCode != 0 {
		t.Fatalf("Expected exit 0, got %d", res.ExitCode)
	}
	if !res.Truncated {
		t.Error("Expected output to be flagged truncated")
	}
	if len(res.Stdout) > 1024 {
		t.Errorf("Captured %d bytes, cap is 1024", len(res.Stdout))
	}
}

func TestScrubOutput(t *testing.T) {
	exe := newExecutor()
	exe.ScrubOutput = true

	res := exe.Run(context.Background(), executor.Invocation{
		Binary: "sh",
		Args:   []string{"-c", `printf '\033[31mred\033[0m plain\n'`},
		Dir:    t.TempDir(),
	})

	if res.ExitCode != 0 {
		t.Fatalf("Expected exit 0, got %d", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "red plain" {
		t.Errorf("ANSI codes not scrubbed: %q", res.Stdout)
	}
}

func TestScrubFunction(t *testing.T) {
	in := "\x1b[1mEr\x00ror:\x1b[0m │ bad ─ thing"
	got := executor.Scrub(in)
	want := "Error: | bad - thing"
	if got != want {
		t.Errorf("Scrub(%q) = %q, want %q", in, got, want)
	}
}

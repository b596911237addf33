// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Caller-facing execution result

package broker

import (
	"time"

	"github.com/sony-level/tf-broker/internal/outcome"
	"github.com/sony-level/tf-broker/internal/tools"
)

// Result is produced exactly once per request and never retained by the
// engine. The raw stdout/stderr are always carried, even when the error
// kind is generic, so callers can inspect tool-specific detail.
type Result struct {
	RequestID       string         `json:"request_id"`
	Success         bool           `json:"success"`
	ExitCode        int            `json:"exit_code"`
	Stdout          string         `json:"stdout"`
	Stderr          string         `json:"stderr"`
	ErrorKind       outcome.Kind   `json:"error_kind,omitempty"`
	Error           string         `json:"error,omitempty"`
	WorkspaceFolder string         `json:"workspace_folder,omitempty"`
	DurationMS      int64          `json:"duration_ms"`
	Truncated       bool           `json:"truncated,omitempty"`

	// Command-specific post-processing, best effort.
	Outputs map[string]any     `json:"outputs,omitempty"`
	Lint    *tools.LintSummary `json:"lint,omitempty"`
	Files   []string           `json:"files,omitempty"`
}

// failed builds a structured failure for a request that never spawned a
// process. The exit code is a sentinel, mirroring the executor's
// pre-start convention.
func failed(id, folder string, kind outcome.Kind, msg string, elapsed time.Duration) *Result {
	return &Result{
		RequestID:       id,
		Success:         false,
		ExitCode:        -1,
		Stderr:          msg,
		Error:           msg,
		ErrorKind:       kind,
		WorkspaceFolder: folder,
		DurationMS:      elapsed.Milliseconds(),
	}
}

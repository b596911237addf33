// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Tool installation probes

package tools

import (
	"context"
	"strings"
	"time"

	"github.com/sony-level/tf-broker/internal/executor"
)

// probeTimeout bounds a version probe; a healthy tool answers instantly.
const probeTimeout = 15 * time.Second

// InstallStatus reports whether one external tool is usable.
type InstallStatus struct {
	Tool      string `json:"tool"`
	Installed bool   `json:"installed"`
	Version   string `json:"version,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// probes lists each tool's version invocation.
var probes = []executor.Invocation{
	{Binary: TerraformBinary, Args: []string{"version"}},
	{Binary: TFLintBinary, Args: []string{"--version"}},
	{Binary: ConftestBinary, Args: []string{"--version"}},
	{Binary: AztfexportBinary, Args: []string{"--version"}},
}

// CheckAll probes every supported tool and reports version or absence.
func CheckAll(ctx context.Context, exe *executor.Executor, dir string) []InstallStatus {
	statuses := make([]InstallStatus, 0, len(probes))
	for _, probe := range probes {
		probe.Dir = dir
		probe.Timeout = probeTimeout
		res := exe.Run(ctx, probe)

		status := InstallStatus{Tool: probe.Binary}
		switch {
		case res.SpawnErr != nil:
			status.Detail = probe.Binary + " is not installed or not available in PATH"
		case res.ExitCode != 0:
			status.Detail = strings.TrimSpace(res.Stderr)
		default:
			status.Installed = true
			status.Version = firstLine(res.Stdout)
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

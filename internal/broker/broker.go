// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Top-level dispatcher: resolve, validate, gate, lock, execute, classify

package broker

import (
	"context"
	"errors"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sony-level/tf-broker/internal/config"
	"github.com/sony-level/tf-broker/internal/executor"
	"github.com/sony-level/tf-broker/internal/locker"
	"github.com/sony-level/tf-broker/internal/outcome"
	"github.com/sony-level/tf-broker/internal/safety"
	"github.com/sony-level/tf-broker/internal/schema"
	"github.com/sony-level/tf-broker/internal/tools"
	"github.com/sony-level/tf-broker/internal/workspace"
)

// Broker is the workspace-scoped command execution engine. All
// components behind it are stateless given their inputs except the lock
// registry.
type Broker struct {
	root  *workspace.Root
	gate  *safety.Gate
	locks *locker.Registry
	exe   *executor.Executor
	log   zerolog.Logger
}

// New wires a broker from configuration.
func New(cfg *config.Config, log zerolog.Logger) (*Broker, error) {
	root, err := workspace.NewRoot(cfg.WorkspaceRoot)
	if err != nil {
		return nil, err
	}
	return &Broker{
		root:  root,
		gate:  safety.NewGate(),
		locks: locker.NewRegistry(),
		exe: &executor.Executor{
			Timeout:     cfg.Timeout,
			OutputLimit: cfg.OutputLimit,
			ExtraEnv:    cfg.ToolEnv(),
			ScrubOutput: true,
		},
		log: log,
	}, nil
}

// Root returns the configured workspace root.
func (b *Broker) Root() *workspace.Root {
	return b.root
}

// Executor exposes the underlying executor for install probes.
func (b *Broker) Executor() *executor.Executor {
	return b.exe
}

// Dispatch runs one command request through the full pipeline. Every
// validation failure is recovered locally and returned as a structured
// result; no process is spawned for them.
func (b *Broker) Dispatch(ctx context.Context, req *schema.Request) *Result {
	id := uuid.NewString()
	start := time.Now()

	log := b.log.With().
		Str("request_id", id).
		Str("command", string(req.Command)).
		Str("subcommand", string(req.Subcommand)).
		Str("workspace", req.Workspace).
		Logger()

	spec, err := schema.Validate(req)
	if err != nil {
		log.Debug().Err(err).Msg("request rejected by schema")
		return failed(id, "", outcome.KindOf(err), err.Error(), time.Since(start))
	}

	if err := b.gate.Check(spec, req); err != nil {
		log.Debug().Err(err).Msg("request rejected by safety gate")
		return failed(id, "", outcome.KindOf(err), err.Error(), time.Since(start))
	}

	mode := workspace.MustExist
	if spec.CreatesWorkspace {
		mode = workspace.CreateIfMissing
	}
	dir, err := b.root.Resolve(req.Workspace, mode)
	if err != nil {
		log.Debug().Err(err).Msg("workspace resolution failed")
		return failed(id, "", outcome.KindOf(err), err.Error(), time.Since(start))
	}

	if requiresTerraformFiles(req.Command) && !workspace.ContainsTerraformFiles(dir) {
		msg := "no Terraform files (.tf or .tf.json) found in workspace folder: " + dir
		return failed(id, dir, outcome.KindConfigurationInvalid, msg, time.Since(start))
	}

	inv, err := tools.Build(req)
	if err != nil {
		return failed(id, dir, outcome.KindOf(err), err.Error(), time.Since(start))
	}
	inv.Dir = dir

	lease, err := b.locks.Acquire(ctx, dir)
	if err != nil {
		kind := outcome.KindToolExecutionFailed
		msg := "request cancelled while waiting for workspace lock"
		if errors.Is(err, context.DeadlineExceeded) {
			kind = outcome.KindTimeout
			msg = "timed out waiting for workspace lock"
		}
		return failed(id, dir, kind, msg, time.Since(start))
	}
	defer lease.Release()

	if req.Command == schema.CmdLint && req.InitPlugins {
		// --init-plugins: prepare the tflint plugin cache first.
		initRes := b.exe.Run(ctx, withDir(tools.BuildTFLintInit(), dir))
		if initRes.ExitCode != 0 {
			return b.finish(log, id, dir, req, initRes)
		}
	}

	res := b.exe.Run(ctx, inv)
	return b.finish(log, id, dir, req, res)
}

// finish classifies the raw process result and assembles the caller
// response.
func (b *Broker) finish(log zerolog.Logger, id, dir string, req *schema.Request, res *executor.Result) *Result {
	out := &Result{
		RequestID:       id,
		ExitCode:        res.ExitCode,
		Stdout:          res.Stdout,
		Stderr:          res.Stderr,
		WorkspaceFolder: dir,
		DurationMS:      res.Duration.Milliseconds(),
		Truncated:       res.Truncated,
	}

	switch {
	case res.TimedOut:
		out.ErrorKind = outcome.KindTimeout
		out.Error = "tool execution exceeded the configured timeout"
	case res.Cancelled:
		out.ErrorKind = outcome.KindToolExecutionFailed
		out.Error = "tool execution cancelled"
	case res.SpawnErr != nil:
		out.ErrorKind = outcome.ClassifySpawnError(res.SpawnErr)
		out.Error = res.SpawnErr.Error()
		out.Stderr = res.SpawnErr.Error()
	case res.ExitCode == 0:
		out.Success = true
	case req.Command == schema.CmdPlan && req.DetailedExitcode && res.ExitCode == 2:
		// -detailed-exitcode: 2 means the plan succeeded with changes.
		out.Success = true
	default:
		out.ErrorKind = outcome.Classify(res.ExitCode, res.Stderr)
	}

	if out.Success {
		b.postProcess(req, out, dir)
	}

	log.Info().
		Bool("success", out.Success).
		Int("exit_code", out.ExitCode).
		Str("error_kind", string(out.ErrorKind)).
		Int64("duration_ms", out.DurationMS).
		Msg("request finished")
	return out
}

// postProcess attaches command-specific structured data on success.
func (b *Broker) postProcess(req *schema.Request, out *Result, dir string) {
	switch req.Command {
	case schema.CmdOutput:
		if req.JSONOutput && out.Stdout != "" {
			if outputs, err := tools.ParseOutputs(out.Stdout); err == nil {
				out.Outputs = outputs
			}
		}
	case schema.CmdLint:
		out.Lint = tools.ParseLintSummary(out.Stdout)
	case schema.CmdExport:
		out.Files = listGeneratedFiles(dir)
	}
}

// requiresTerraformFiles reports whether a command is meaningless in a
// folder holding no configuration. Export commands write fresh trees and
// lint/policy tools emit their own diagnostics for empty folders.
func requiresTerraformFiles(cmd schema.Command) bool {
	switch cmd {
	case schema.CmdLint, schema.CmdPolicy, schema.CmdExport, schema.CmdInit:
		return false
	}
	return true
}

// listGeneratedFiles names the top-level files an export produced.
func listGeneratedFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files
}

func withDir(inv executor.Invocation, dir string) executor.Invocation {
	inv.Dir = dir
	return inv
}

// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Deterministic argv construction per tool

package tools

import (
	"strconv"

	"github.com/sony-level/tf-broker/internal/executor"
	"github.com/sony-level/tf-broker/internal/outcome"
	"github.com/sony-level/tf-broker/internal/schema"
)

// Tool binary names. The broker never resolves paths itself; lookup is
// left to the OS so PATH overrides behave as operators expect.
const (
	TerraformBinary  = "terraform"
	TFLintBinary     = "tflint"
	ConftestBinary   = "conftest"
	AztfexportBinary = "aztfexport"
)

// Build translates a validated request into a concrete invocation.
// Arguments are appended in a fixed order (command, subcommand, flags,
// positionals) and never pass through a shell.
func Build(req *schema.Request) (executor.Invocation, error) {
	switch req.Command {
	case schema.CmdLint:
		return buildTFLint(req), nil
	case schema.CmdPolicy:
		return buildConftest(req), nil
	case schema.CmdExport:
		return buildAztfexport(req), nil
	default:
		return buildTerraform(req)
	}
}

func buildTerraform(req *schema.Request) (executor.Invocation, error) {
	args := []string{string(req.Command)}

	switch req.Command {
	case schema.CmdInit:
		if req.Upgrade {
			args = append(args, "-upgrade")
		}
	case schema.CmdPlan:
		if req.VarFile != "" {
			args = append(args, "-var-file", req.VarFile)
		}
		if req.DetailedExitcode {
			args = append(args, "-detailed-exitcode")
		}
	case schema.CmdApply, schema.CmdDestroy:
		// The safety gate has already required explicit confirmation;
		// -auto-approve keeps the tool from prompting a TTY it lacks.
		args = append(args, "-auto-approve")
		if req.VarFile != "" {
			args = append(args, "-var-file", req.VarFile)
		}
	case schema.CmdRefresh:
		if req.VarFile != "" {
			args = append(args, "-var-file", req.VarFile)
		}
	case schema.CmdOutput:
		if req.JSONOutput {
			args = append(args, "-json")
		}
	case schema.CmdState:
		args = append(args, string(req.Subcommand))
	case schema.CmdValidate, schema.CmdFmt, schema.CmdShow:
		// No command-specific flags.
	default:
		return executor.Invocation{}, outcome.Errorf(outcome.KindUnsupportedCommand,
			"unsupported command: %q", req.Command)
	}

	args = append(args, "-no-color")
	args = append(args, req.Args...)

	return executor.Invocation{Binary: TerraformBinary, Args: args}, nil
}

func buildTFLint(req *schema.Request) executor.Invocation {
	args := []string{"--format", "json", "--force"}
	return executor.Invocation{Binary: TFLintBinary, Args: args}
}

// BuildTFLintInit returns the plugin initialization invocation run before
// a lint scan when requested.
func BuildTFLintInit() executor.Invocation {
	return executor.Invocation{Binary: TFLintBinary, Args: []string{"--init"}}
}

func buildConftest(req *schema.Request) executor.Invocation {
	args := []string{"test"}
	if req.PolicyDir != "" {
		args = append(args, "--policy", req.PolicyDir)
	}
	if req.Namespace != "" {
		args = append(args, "--namespace", req.Namespace)
	} else {
		args = append(args, "--all-namespaces")
	}
	args = append(args, "--no-color")
	if req.PlanFile != "" {
		args = append(args, req.PlanFile)
	} else {
		args = append(args, ".")
	}
	return executor.Invocation{Binary: ConftestBinary, Args: args}
}

func buildAztfexport(req *schema.Request) executor.Invocation {
	args := []string{string(req.Subcommand), "--non-interactive"}
	if req.Parallelism > 0 {
		args = append(args, "--parallelism", strconv.Itoa(req.Parallelism))
	}
	if req.ContinueOnError {
		args = append(args, "--continue")
	}
	if req.Append {
		args = append(args, "--append")
	}
	args = append(args, req.Args...)
	return executor.Invocation{Binary: AztfexportBinary, Args: args}
}

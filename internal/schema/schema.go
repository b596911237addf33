// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Static command table and structural request validation

package schema

import (
	"strings"

	"github.com/sony-level/tf-broker/internal/outcome"
)

// Command is one of the broker's supported top-level commands.
type Command string

const (
	CmdInit     Command = "init"
	CmdPlan     Command = "plan"
	CmdApply    Command = "apply"
	CmdDestroy  Command = "destroy"
	CmdValidate Command = "validate"
	CmdFmt      Command = "fmt"
	CmdRefresh  Command = "refresh"
	CmdShow     Command = "show"
	CmdOutput   Command = "output"
	CmdState    Command = "state"
	CmdLint     Command = "lint"
	CmdPolicy   Command = "policy"
	CmdExport   Command = "export"
)

// Subcommand qualifies commands that need one (state, export).
type Subcommand string

const (
	StateList Subcommand = "list"
	StateShow Subcommand = "show"
	StateMv   Subcommand = "mv"
	StateRm   Subcommand = "rm"
	StatePull Subcommand = "pull"
	StatePush Subcommand = "push"

	ExportResource      Subcommand = "resource"
	ExportResourceGroup Subcommand = "resource-group"
	ExportQuery         Subcommand = "query"
)

// Request is a fully described command request. Every field is validated
// against the command table before any subprocess is spawned.
type Request struct {
	Command    Command
	Subcommand Subcommand
	Args       []string
	Workspace  string

	// Confirm is the explicit approval required by destructive
	// operations. Absent means false: fail closed.
	Confirm bool

	// Pass-through flags, appended to the argv in fixed order and never
	// interpreted by the broker.
	VarFile          string
	Upgrade          bool
	InitPlugins      bool
	DetailedExitcode bool
	JSONOutput       bool
	PolicyDir        string
	Namespace        string
	PlanFile         string
	Parallelism      int
	ContinueOnError  bool
	Append           bool
}

// Spec describes the structural rules for one command. The table is
// built once at startup and never mutated.
type Spec struct {
	RequiresSubcommand bool
	Subcommands        map[Subcommand]bool
	// DestructiveSubs marks subcommands that mutate irreversibly; for
	// commands without subcommands, Destructive covers the whole command.
	Destructive     bool
	DestructiveSubs map[Subcommand]bool
	// CreatesWorkspace marks commands whose workspace folder is created
	// on demand instead of having to pre-exist.
	CreatesWorkspace bool
	// Validate holds command-specific arity rules beyond the shared
	// subcommand checks. Nil means no extra rules.
	Validate func(req *Request) error
}

var table = map[Command]*Spec{
	CmdInit:     {},
	CmdPlan:     {},
	CmdApply:    {Destructive: true},
	CmdDestroy:  {Destructive: true},
	CmdValidate: {},
	CmdFmt:      {},
	CmdRefresh:  {},
	CmdShow:     {},
	CmdOutput:   {},
	CmdState: {
		RequiresSubcommand: true,
		Subcommands: map[Subcommand]bool{
			StateList: true, StateShow: true, StateMv: true,
			StateRm: true, StatePull: true, StatePush: true,
		},
		DestructiveSubs: map[Subcommand]bool{StatePush: true},
		Validate:        validateStateArgs,
	},
	CmdLint:   {},
	CmdPolicy: {},
	CmdExport: {
		RequiresSubcommand: true,
		Subcommands: map[Subcommand]bool{
			ExportResource: true, ExportResourceGroup: true, ExportQuery: true,
		},
		CreatesWorkspace: true,
		Validate:         validateExportArgs,
	},
}

// Lookup returns the spec for a command, or an unsupported_command error.
func Lookup(cmd Command) (*Spec, error) {
	spec, ok := table[cmd]
	if !ok {
		return nil, outcome.Errorf(outcome.KindUnsupportedCommand,
			"unsupported command: %q", cmd)
	}
	return spec, nil
}

// Validate checks a request's structure against the command table.
// Validation is purely structural; whether a resource address exists is
// the underlying tool's concern.
func Validate(req *Request) (*Spec, error) {
	spec, err := Lookup(req.Command)
	if err != nil {
		return nil, err
	}

	if spec.RequiresSubcommand {
		if req.Subcommand == "" {
			return nil, outcome.Errorf(outcome.KindMissingSubcommand,
				"command %q requires a subcommand", req.Command)
		}
		if !spec.Subcommands[req.Subcommand] {
			return nil, outcome.Errorf(outcome.KindUnsupportedSubcommand,
				"unsupported %s subcommand: %q", req.Command, req.Subcommand)
		}
	} else if req.Subcommand != "" {
		return nil, outcome.Errorf(outcome.KindUnsupportedSubcommand,
			"command %q does not take a subcommand", req.Command)
	}

	if spec.Validate != nil {
		if err := spec.Validate(req); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

// IsDestructive reports whether the request mutates real-world resources
// or the state mapping irreversibly.
func (s *Spec) IsDestructive(req *Request) bool {
	if s.Destructive {
		return true
	}
	return s.DestructiveSubs[req.Subcommand]
}

func validateStateArgs(req *Request) error {
	tokens := nonEmpty(req.Args)

	switch req.Subcommand {
	case StateShow, StateRm:
		if len(tokens) == 0 {
			return outcome.Errorf(outcome.KindMissingArgument,
				"state %s requires a resource address", req.Subcommand)
		}
	case StateMv:
		if len(tokens) == 0 {
			return outcome.Errorf(outcome.KindMissingArgument,
				"state mv requires source and destination addresses")
		}
		if len(tokens) != 2 {
			return outcome.Errorf(outcome.KindMalformedArgument,
				"state mv requires exactly two addresses (source destination), got %d", len(tokens))
		}
	}
	return nil
}

func validateExportArgs(req *Request) error {
	tokens := nonEmpty(req.Args)
	if len(tokens) == 0 {
		var what string
		switch req.Subcommand {
		case ExportResource:
			what = "a resource ID"
		case ExportResourceGroup:
			what = "a resource group name"
		case ExportQuery:
			what = "an Azure Resource Graph query"
		}
		return outcome.Errorf(outcome.KindMissingArgument,
			"export %s requires %s", req.Subcommand, what)
	}
	return nil
}

// nonEmpty splits whitespace-joined argument strings into tokens and
// drops empties, so "addrA addrB" and ["addrA","addrB"] validate alike.
func nonEmpty(args []string) []string {
	var out []string
	for _, a := range args {
		out = append(out, strings.Fields(a)...)
	}
	return out
}

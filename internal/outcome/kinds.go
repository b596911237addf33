// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Tool-agnostic error taxonomy shared by every broker stage

package outcome

import (
	"errors"
	"fmt"
)

// Kind identifies one class of broker failure. The zero value means
// "no failure".
type Kind string

const (
	KindNone Kind = ""

	// Pre-execution failures: the request never reaches a subprocess.
	KindPathEscape            Kind = "path_escape"
	KindWorkspaceNotFound     Kind = "workspace_not_found"
	KindUnsupportedCommand    Kind = "unsupported_command"
	KindMissingSubcommand     Kind = "missing_subcommand"
	KindUnsupportedSubcommand Kind = "unsupported_subcommand"
	KindMissingArgument       Kind = "missing_argument"
	KindMalformedArgument     Kind = "malformed_argument"
	KindConfirmationRequired  Kind = "confirmation_required"

	// Execution-time failures, classified from the process outcome.
	KindTimeout              Kind = "timeout"
	KindToolNotInstalled     Kind = "tool_not_installed"
	KindConfigurationInvalid Kind = "configuration_invalid"
	KindAuthenticationFailed Kind = "authentication_failed"
	KindToolExecutionFailed  Kind = "tool_execution_failed"
)

// PreExecution reports whether the kind belongs to the validation phase,
// where no subprocess may have been spawned.
func (k Kind) PreExecution() bool {
	switch k {
	case KindPathEscape, KindWorkspaceNotFound, KindUnsupportedCommand,
		KindMissingSubcommand, KindUnsupportedSubcommand,
		KindMissingArgument, KindMalformedArgument, KindConfirmationRequired:
		return true
	}
	return false
}

// KindError is an error tagged with a taxonomy kind.
type KindError struct {
	Kind Kind
	Msg  string
}

func (e *KindError) Error() string {
	return e.Msg
}

// Errorf builds a KindError with a formatted message.
func Errorf(kind Kind, format string, args ...any) error {
	return &KindError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the taxonomy kind from an error chain.
// Untagged errors map to KindToolExecutionFailed so that fatal or
// unforeseen conditions surface as unclassified failures instead of
// being swallowed.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return KindToolExecutionFailed
}

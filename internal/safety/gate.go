// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Confirmation gate for destructive operations

package safety

import (
	"github.com/sony-level/tf-broker/internal/outcome"
	"github.com/sony-level/tf-broker/internal/schema"
)

// Gate enforces explicit confirmation before any destructive operation
// is dispatched. It is a pure pre-flight check: rejected requests never
// touch the lock registry or the filesystem.
type Gate struct{}

// NewGate returns the confirmation gate. There is no configuration knob
// to auto-confirm; omission of the flag always means denial.
func NewGate() *Gate {
	return &Gate{}
}

// Check returns a confirmation_required error when the request is
// destructive and not explicitly confirmed. Non-destructive operations
// bypass the gate entirely.
func (g *Gate) Check(spec *schema.Spec, req *schema.Request) error {
	if !spec.IsDestructive(req) {
		return nil
	}
	if req.Confirm {
		return nil
	}

	op := string(req.Command)
	if req.Subcommand != "" {
		op += " " + string(req.Subcommand)
	}
	return outcome.Errorf(outcome.KindConfirmationRequired,
		"%s is destructive and requires explicit confirmation (--auto-approve)", op)
}

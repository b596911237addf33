/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sony-level/tf-broker/internal/schema"
)

// stateCmd groups the state-management subcommands. State mutations
// (mv, rm) edit only the mapping between configuration and real
// resources; push is the destructive one.
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Terraform state management operations",
	Long: `State management operations against a workspace's Terraform state.

Subcommands:
  list          List all resource addresses in state
  show ADDR     Show the attributes of one resource
  mv SRC DST    Move/rename a resource address in state
  rm ADDR       Remove a resource from state
  pull          Print the current state
  push FILE     Upload a local state file (destructive, requires --auto-approve)`,
}

func stateSub(use, short string, sub schema.Subcommand, maxArgs int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(maxArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, &schema.Request{
				Command:    schema.CmdState,
				Subcommand: sub,
				Workspace:  workspaceFolder,
				Args:       args,
				Confirm:    autoApprove,
			})
		},
	}
	workspaceFlag(cmd)
	return cmd
}

func init() {
	list := stateSub("list", "List resources in state", schema.StateList, 0)
	show := stateSub("show ADDR", "Show one resource in state", schema.StateShow, 1)
	mv := stateSub("mv SOURCE DESTINATION", "Move a resource address in state", schema.StateMv, 2)
	rm := stateSub("rm ADDR", "Remove a resource from state", schema.StateRm, 1)
	pull := stateSub("pull", "Print the current state", schema.StatePull, 0)
	push := stateSub("push FILE", "Upload a local state file", schema.StatePush, 1)
	push.Flags().BoolVar(&autoApprove, "auto-approve", false, "Confirm this destructive operation")

	stateCmd.AddCommand(list, show, mv, rm, pull, push)
	rootCmd.AddCommand(stateCmd)
}

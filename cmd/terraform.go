/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sony-level/tf-broker/internal/schema"
)

var (
	varFile          string
	autoApprove      bool
	upgradeModules   bool
	detailedExitcode bool
)

// workspaceFlag registers the required -w/--workspace flag on a command.
func workspaceFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&workspaceFolder, "workspace", "w", "", "Workspace folder under the root (required)")
	_ = cmd.MarkFlagRequired("workspace")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a Terraform workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, &schema.Request{
			Command:   schema.CmdInit,
			Workspace: workspaceFolder,
			Upgrade:   upgradeModules,
		})
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the changes Terraform would make",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, &schema.Request{
			Command:          schema.CmdPlan,
			Workspace:        workspaceFolder,
			VarFile:          varFile,
			DetailedExitcode: detailedExitcode,
		})
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply Terraform changes (destructive, requires --auto-approve)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, &schema.Request{
			Command:   schema.CmdApply,
			Workspace: workspaceFolder,
			VarFile:   varFile,
			Confirm:   autoApprove,
		})
	},
}

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Destroy Terraform-managed resources (destructive, requires --auto-approve)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, &schema.Request{
			Command:   schema.CmdDestroy,
			Workspace: workspaceFolder,
			VarFile:   varFile,
			Confirm:   autoApprove,
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the workspace configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, &schema.Request{
			Command:   schema.CmdValidate,
			Workspace: workspaceFolder,
		})
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Format the workspace configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, &schema.Request{
			Command:   schema.CmdFmt,
			Workspace: workspaceFolder,
		})
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh Terraform state against real resources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, &schema.Request{
			Command:   schema.CmdRefresh,
			Workspace: workspaceFolder,
			VarFile:   varFile,
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show [statefile]",
	Short: "Show the current state or a saved plan/state file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, &schema.Request{
			Command:   schema.CmdShow,
			Workspace: workspaceFolder,
			Args:      args,
		})
	},
}

var outputCmd = &cobra.Command{
	Use:   "output [name]",
	Short: "Read output values from the workspace state",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, &schema.Request{
			Command:    schema.CmdOutput,
			Workspace:  workspaceFolder,
			Args:       args,
			JSONOutput: jsonOutput,
		})
	},
}

func init() {
	initCmd.Flags().BoolVar(&upgradeModules, "upgrade", false, "Upgrade modules and providers")
	planCmd.Flags().StringVar(&varFile, "var-file", "", "Variables file passed to terraform")
	planCmd.Flags().BoolVar(&detailedExitcode, "detailed-exitcode", false, "Exit 2 when the plan contains changes")
	applyCmd.Flags().StringVar(&varFile, "var-file", "", "Variables file passed to terraform")
	applyCmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Confirm this destructive operation")
	destroyCmd.Flags().StringVar(&varFile, "var-file", "", "Variables file passed to terraform")
	destroyCmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Confirm this destructive operation")
	refreshCmd.Flags().StringVar(&varFile, "var-file", "", "Variables file passed to terraform")

	for _, cmd := range []*cobra.Command{
		initCmd, planCmd, applyCmd, destroyCmd, validateCmd,
		fmtCmd, refreshCmd, showCmd, outputCmd,
	} {
		workspaceFlag(cmd)
		rootCmd.AddCommand(cmd)
	}
}

/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sony-level/tf-broker/internal/schema"
)

var (
	initPlugins bool
	policyDir   string
	namespace   string
	planFile    string
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Run tflint against a workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, &schema.Request{
			Command:     schema.CmdLint,
			Workspace:   workspaceFolder,
			InitPlugins: initPlugins,
		})
	},
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Validate a workspace against conftest policies",
	Long: `Run conftest against the workspace configuration, or against a saved
plan file with --plan-file. Policy rule content is passed through to
conftest unchanged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, &schema.Request{
			Command:   schema.CmdPolicy,
			Workspace: workspaceFolder,
			PolicyDir: policyDir,
			Namespace: namespace,
			PlanFile:  planFile,
		})
	},
}

func init() {
	lintCmd.Flags().BoolVar(&initPlugins, "init-plugins", false, "Run tflint --init before scanning")
	policyCmd.Flags().StringVar(&policyDir, "policy-dir", "", "Directory containing rego policies")
	policyCmd.Flags().StringVar(&namespace, "namespace", "", "Policy namespace to evaluate (default: all)")
	policyCmd.Flags().StringVar(&planFile, "plan-file", "", "Validate a saved plan JSON instead of the configuration")

	for _, cmd := range []*cobra.Command{lintCmd, policyCmd} {
		workspaceFlag(cmd)
		rootCmd.AddCommand(cmd)
	}
}

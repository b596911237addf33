/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sony-level/tf-broker/internal/schema"
)

var (
	parallelism     int
	continueOnError bool
	appendExport    bool
)

// exportCmd groups the aztfexport subcommands. Export workspaces are
// created on demand; retry/parallelism flags pass through opaquely.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export existing Azure resources to Terraform configuration",
}

func exportSub(use, short string, sub schema.Subcommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, &schema.Request{
				Command:         schema.CmdExport,
				Subcommand:      sub,
				Workspace:       workspaceFolder,
				Args:            args,
				Parallelism:     parallelism,
				ContinueOnError: continueOnError,
				Append:          appendExport,
			})
		},
	}
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "Parallel import limit passed to aztfexport")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Continue even if some resources fail to export")
	cmd.Flags().BoolVar(&appendExport, "append", false, "Append to existing configuration instead of requiring an empty folder")
	workspaceFlag(cmd)
	return cmd
}

func init() {
	exportCmd.AddCommand(
		exportSub("resource RESOURCE_ID", "Export a single Azure resource", schema.ExportResource),
		exportSub("resource-group NAME", "Export a whole resource group", schema.ExportResourceGroup),
		exportSub("query ARG_QUERY", "Export resources matching an Azure Resource Graph query", schema.ExportQuery),
	)
	rootCmd.AddCommand(exportCmd)
}

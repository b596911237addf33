/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sony-level/tf-broker/internal/tools"
)

// checkCmd probes every supported tool binary.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check which external tools are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, cfg, err := newBroker()
		if err != nil {
			return err
		}

		statuses := tools.CheckAll(cmd.Context(), b.Executor(), cfg.WorkspaceRoot)

		if jsonOutput {
			data, err := json.MarshalIndent(statuses, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		for _, s := range statuses {
			if s.Installed {
				fmt.Printf("✓ %-12s %s\n", s.Tool, s.Version)
			} else {
				fmt.Printf("✗ %-12s not installed", s.Tool)
				if s.Detail != "" {
					fmt.Printf(" (%s)", s.Detail)
				}
				fmt.Println()
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sony-level/tf-broker/internal/fetcher"
	"github.com/sony-level/tf-broker/internal/workspace"
)

var (
	cloneBranch string
	fullClone   bool
	staleHours  int
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage workspace folders under the root",
}

var workspaceNewCmd = &cobra.Command{
	Use:   "new FOLDER",
	Short: "Create an empty workspace folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := newBroker()
		if err != nil {
			return err
		}
		path, err := b.Root().Create(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created workspace %s\n", path)
		return nil
	},
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspace folders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, cfg, err := newBroker()
		if err != nil {
			return err
		}
		infos, err := b.Root().List()
		if err != nil {
			return err
		}
		fmt.Printf("Workspace root: %s\n", cfg.WorkspaceRoot)
		if len(infos) == 0 {
			fmt.Println("No workspaces.")
			return nil
		}
		for _, info := range infos {
			marker := " "
			if info.HasTF {
				marker = "*"
			}
			fmt.Printf("  %s %-30s %s\n", marker, info.Name, info.Modified.Format("2006-01-02 15:04"))
		}
		fmt.Println("\n  * contains Terraform configuration")
		return nil
	},
}

var workspaceCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove stale workspace folders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := newBroker()
		if err != nil {
			return err
		}
		cleaned, err := b.Root().CleanStale(time.Duration(staleHours) * time.Hour)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d stale workspace(s)\n", cleaned)
		return nil
	},
}

var workspaceCloneCmd = &cobra.Command{
	Use:   "clone URL FOLDER",
	Short: "Seed a workspace folder from a git repository",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := newBroker()
		if err != nil {
			return err
		}
		dest, err := b.Root().Resolve(args[1], workspace.CreateIfMissing)
		if err != nil {
			return err
		}

		cloneCfg := &fetcher.CloneConfig{
			URL:          args[0],
			Destination:  dest,
			Reference:    cloneBranch,
			ShallowClone: !fullClone,
		}
		if verbose {
			cloneCfg.Progress = os.Stderr
		}

		res, err := fetcher.Clone(cloneCfg)
		if err != nil {
			return err
		}
		fmt.Printf("Cloned %d files (%d bytes) into %s\n", res.FilesCopied, res.BytesCopied, res.Destination)
		if !workspace.ContainsTerraformFiles(dest) {
			fmt.Println("Warning: cloned repository contains no Terraform files")
		}
		return nil
	},
}

func init() {
	workspaceCloneCmd.Flags().StringVar(&cloneBranch, "branch", "", "Branch or tag to clone")
	workspaceCloneCmd.Flags().BoolVar(&fullClone, "full", false, "Full clone instead of shallow")
	workspaceCleanCmd.Flags().IntVar(&staleHours, "stale", 72, "Remove workspaces idle for at least this many hours")

	workspaceCmd.AddCommand(workspaceNewCmd, workspaceListCmd, workspaceCleanCmd, workspaceCloneCmd)
	rootCmd.AddCommand(workspaceCmd)
}

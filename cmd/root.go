/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sony-level/tf-broker/internal/broker"
	"github.com/sony-level/tf-broker/internal/config"
	"github.com/sony-level/tf-broker/internal/schema"
)

var (
	// Global flags
	workspaceRoot string
	configFile    string
	timeoutFlag   time.Duration
	jsonOutput    bool
	verbose       bool

	// Workspace flag shared by every command that targets a folder
	workspaceFolder string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tfb",
	Short: "Workspace-scoped command broker for Terraform tooling",
	Long: `tfb (tf-broker) executes Terraform, tflint, conftest and aztfexport
commands inside named workspace folders under a configured root.

Folder arguments are resolved against the workspace root and may never
escape it. Destructive operations (apply, destroy, state push) require
explicit confirmation via --auto-approve. Concurrent operations against
the same workspace are serialized; different workspaces run in parallel.

Examples:
  tfb plan -w demo
  tfb apply -w demo --auto-approve
  tfb state list -w demo
  tfb state mv -w demo azurerm_resource_group.a azurerm_resource_group.b
  tfb export resource-group my-rg -w exported/my-rg
  tfb workspace clone https://github.com/user/infra-repo demo`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workspaceRoot, "workspace-root", "", "Workspace root directory (default: $TFB_WORKSPACE_ROOT, /workspace, or cwd)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "Per-invocation timeout (default: 5m, max 30m)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// loadConfig builds the effective configuration: file (when given) or
// environment, then flag overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.FromFile(configFile)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, err
	}

	if workspaceRoot != "" {
		cfg.WorkspaceRoot = workspaceRoot
	}
	if timeoutFlag > 0 {
		cfg.Timeout = timeoutFlag
	}
	return cfg, nil
}

// newLogger configures engine logging. Silent unless verbose or debug.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.Disabled
	if verbose {
		level = zerolog.InfoLevel
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// newBroker wires configuration, logging and the broker.
func newBroker() (*broker.Broker, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	b, err := broker.New(cfg, newLogger(cfg))
	if err != nil {
		return nil, nil, err
	}
	return b, cfg, nil
}

// dispatch runs one request through a fresh broker and renders the
// result. It returns a non-nil error when the operation failed so cobra
// reflects it in the exit status.
func dispatch(cmd *cobra.Command, req *schema.Request) error {
	b, _, err := newBroker()
	if err != nil {
		return err
	}

	res := b.Dispatch(cmd.Context(), req)
	if err := printResult(res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("%s failed (%s)", req.Command, res.ErrorKind)
	}
	return nil
}

// printResult renders a result as JSON or human-readable text.
func printResult(res *broker.Result) error {
	if jsonOutput {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if res.Stdout != "" {
		fmt.Print(res.Stdout)
		if res.Stdout[len(res.Stdout)-1] != '\n' {
			fmt.Println()
		}
	}
	if res.Stderr != "" && !res.Success {
		fmt.Fprint(os.Stderr, res.Stderr)
		if res.Stderr[len(res.Stderr)-1] != '\n' {
			fmt.Fprintln(os.Stderr)
		}
	}
	if res.Truncated {
		fmt.Fprintln(os.Stderr, "Warning: output truncated at the configured limit")
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "request %s: exit %d in %dms\n", res.RequestID, res.ExitCode, res.DurationMS)
	}
	return nil
}

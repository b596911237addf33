// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Broker configuration from environment and optional YAML file

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimeout bounds a single tool invocation.
	DefaultTimeout = 5 * time.Minute
	// MaxTimeout is the hard ceiling regardless of configuration.
	MaxTimeout = 30 * time.Minute
	// DefaultOutputLimit caps captured bytes per stream (4 MiB).
	DefaultOutputLimit = 4 << 20
)

// Azure holds credential settings passed through to tool subprocesses.
type Azure struct {
	SubscriptionID string `yaml:"subscription_id"`
	TenantID       string `yaml:"tenant_id"`
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`
}

// Config is the process-wide broker configuration. WorkspaceRoot is
// immutable after startup; all workspace folders resolve beneath it.
type Config struct {
	WorkspaceRoot string        `yaml:"workspace_root"`
	Timeout       time.Duration `yaml:"timeout"`
	OutputLimit   int           `yaml:"output_limit"`
	Debug         bool          `yaml:"debug"`
	Azure         Azure         `yaml:"azure"`
}

// Default returns the built-in configuration with the workspace root
// resolution order used when nothing is configured: /workspace when it
// exists (container mounts), otherwise the current directory.
func Default() *Config {
	root := "/workspace"
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		if cwd, err := os.Getwd(); err == nil {
			root = cwd
		}
	}
	return &Config{
		WorkspaceRoot: root,
		Timeout:       DefaultTimeout,
		OutputLimit:   DefaultOutputLimit,
	}
}

// FromEnv builds the configuration from environment variables, starting
// from Default. Unset variables keep their defaults.
func FromEnv() (*Config, error) {
	cfg := Default()

	if v := os.Getenv("TFB_WORKSPACE_ROOT"); v != "" {
		cfg.WorkspaceRoot = v
	}
	if v := os.Getenv("TFB_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TFB_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("TFB_OUTPUT_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TFB_OUTPUT_LIMIT %q: %w", v, err)
		}
		cfg.OutputLimit = n
	}
	if v := os.Getenv("TFB_DEBUG"); v != "" {
		cfg.Debug = v == "true" || v == "1" || v == "yes"
	}

	cfg.Azure = Azure{
		SubscriptionID: os.Getenv("ARM_SUBSCRIPTION_ID"),
		TenantID:       os.Getenv("ARM_TENANT_ID"),
		ClientID:       os.Getenv("ARM_CLIENT_ID"),
		ClientSecret:   os.Getenv("ARM_CLIENT_SECRET"),
	}

	return cfg.normalize()
}

// fileConfig mirrors Config for YAML decoding. The timeout is a string
// so files can use duration syntax ("90s", "5m").
type fileConfig struct {
	WorkspaceRoot string `yaml:"workspace_root"`
	Timeout       string `yaml:"timeout"`
	OutputLimit   int    `yaml:"output_limit"`
	Debug         bool   `yaml:"debug"`
	Azure         Azure  `yaml:"azure"`
}

// FromFile loads a YAML configuration file on top of the defaults.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := Default()
	if fc.WorkspaceRoot != "" {
		cfg.WorkspaceRoot = fc.WorkspaceRoot
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout in %s: %w", path, err)
		}
		cfg.Timeout = d
	}
	if fc.OutputLimit != 0 {
		cfg.OutputLimit = fc.OutputLimit
	}
	cfg.Debug = fc.Debug
	cfg.Azure = fc.Azure
	return cfg.normalize()
}

// normalize makes the workspace root absolute and clamps limits.
func (c *Config) normalize() (*Config, error) {
	abs, err := filepath.Abs(c.WorkspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	c.WorkspaceRoot = filepath.Clean(abs)

	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Timeout > MaxTimeout {
		c.Timeout = MaxTimeout
	}
	if c.OutputLimit <= 0 {
		c.OutputLimit = DefaultOutputLimit
	}
	return c, nil
}

// ToolEnv returns the extra environment passed to tool subprocesses.
// Empty credentials are omitted so tools fall back to their own chains.
func (c *Config) ToolEnv() []string {
	var env []string
	if c.Azure.SubscriptionID != "" {
		env = append(env, "ARM_SUBSCRIPTION_ID="+c.Azure.SubscriptionID)
	}
	if c.Azure.TenantID != "" {
		env = append(env, "ARM_TENANT_ID="+c.Azure.TenantID)
	}
	if c.Azure.ClientID != "" {
		env = append(env, "ARM_CLIENT_ID="+c.Azure.ClientID)
	}
	if c.Azure.ClientSecret != "" {
		env = append(env, "ARM_CLIENT_SECRET="+c.Azure.ClientSecret)
	}
	return env
}

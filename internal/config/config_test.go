// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Tests for broker configuration loading

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearBrokerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TFB_WORKSPACE_ROOT", "TFB_TIMEOUT", "TFB_OUTPUT_LIMIT", "TFB_DEBUG",
		"ARM_SUBSCRIPTION_ID", "ARM_TENANT_ID", "ARM_CLIENT_ID", "ARM_CLIENT_SECRET",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearBrokerEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Expected default timeout %v, got %v", DefaultTimeout, cfg.Timeout)
	}
	if cfg.OutputLimit != DefaultOutputLimit {
		t.Errorf("Expected default output limit %d, got %d", DefaultOutputLimit, cfg.OutputLimit)
	}
	if !filepath.IsAbs(cfg.WorkspaceRoot) {
		t.Errorf("Workspace root must be absolute, got %s", cfg.WorkspaceRoot)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearBrokerEnv(t)
	dir := t.TempDir()
	t.Setenv("TFB_WORKSPACE_ROOT", dir)
	t.Setenv("TFB_TIMEOUT", "90s")
	t.Setenv("TFB_OUTPUT_LIMIT", "1024")
	t.Setenv("TFB_DEBUG", "true")
	t.Setenv("ARM_SUBSCRIPTION_ID", "sub-123")
	t.Setenv("ARM_TENANT_ID", "tenant-456")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.WorkspaceRoot != dir {
		t.Errorf("Expected root %s, got %s", dir, cfg.WorkspaceRoot)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Expected 90s timeout, got %v", cfg.Timeout)
	}
	if cfg.OutputLimit != 1024 {
		t.Errorf("Expected output limit 1024, got %d", cfg.OutputLimit)
	}
	if !cfg.Debug {
		t.Error("Expected debug mode on")
	}
	if cfg.Azure.SubscriptionID != "sub-123" || cfg.Azure.TenantID != "tenant-456" {
		t.Errorf("Azure credentials not picked up: %+v", cfg.Azure)
	}
}

func TestFromEnvInvalidValues(t *testing.T) {
	clearBrokerEnv(t)

	t.Setenv("TFB_TIMEOUT", "not-a-duration")
	if _, err := FromEnv(); err == nil {
		t.Error("invalid TFB_TIMEOUT should be rejected")
	}
	os.Unsetenv("TFB_TIMEOUT")

	t.Setenv("TFB_OUTPUT_LIMIT", "four megabytes")
	if _, err := FromEnv(); err == nil {
		t.Error("invalid TFB_OUTPUT_LIMIT should be rejected")
	}
}

func TestTimeoutClamping(t *testing.T) {
	clearBrokerEnv(t)

	t.Setenv("TFB_TIMEOUT", "4h")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Timeout != MaxTimeout {
		t.Errorf("Expected timeout clamped to %v, got %v", MaxTimeout, cfg.Timeout)
	}

	t.Setenv("TFB_TIMEOUT", "-5s")
	if _, err := FromEnv(); err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	cfg, _ = FromEnv()
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Expected negative timeout to fall back to %v, got %v", DefaultTimeout, cfg.Timeout)
	}
}

func TestFromFile(t *testing.T) {
	clearBrokerEnv(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "broker.yaml")
	content := "workspace_root: " + dir + "\ntimeout: 2m\noutput_limit: 2048\nazure:\n  subscription_id: sub-789\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	cfg, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if cfg.WorkspaceRoot != dir {
		t.Errorf("Expected root %s, got %s", dir, cfg.WorkspaceRoot)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Expected 2m timeout, got %v", cfg.Timeout)
	}
	if cfg.OutputLimit != 2048 {
		t.Errorf("Expected output limit 2048, got %d", cfg.OutputLimit)
	}
	if cfg.Azure.SubscriptionID != "sub-789" {
		t.Errorf("Azure block not parsed: %+v", cfg.Azure)
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing config file should be an error")
	}
}

func TestToolEnv(t *testing.T) {
	cfg := &Config{Azure: Azure{SubscriptionID: "s", ClientID: "c"}}
	env := cfg.ToolEnv()
	if len(env) != 2 {
		t.Fatalf("Expected 2 entries, got %v", env)
	}
	if env[0] != "ARM_SUBSCRIPTION_ID=s" || env[1] != "ARM_CLIENT_ID=c" {
		t.Errorf("Unexpected env: %v", env)
	}

	if env := (&Config{}).ToolEnv(); len(env) != 0 {
		t.Errorf("Empty credentials must produce no env, got %v", env)
	}
}

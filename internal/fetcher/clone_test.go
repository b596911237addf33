// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Tests for workspace seeding preconditions

package fetcher

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCloneRejectsEmptyConfig(t *testing.T) {
	if _, err := Clone(nil); err == nil {
		t.Error("nil config should be rejected")
	}
	if _, err := Clone(&CloneConfig{Destination: t.TempDir()}); err == nil {
		t.Error("empty URL should be rejected")
	}
	if _, err := Clone(&CloneConfig{URL: "https://github.com/user/repo"}); err == nil {
		t.Error("empty destination should be rejected")
	}
}

func TestCloneRejectsNonEmptyDestination(t *testing.T) {
	dest := t.TempDir()
	if err := os.WriteFile(filepath.Join(dest, "main.tf"), []byte(""), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	_, err := Clone(&CloneConfig{URL: "https://github.com/user/repo", Destination: dest})
	if err == nil {
		t.Error("non-empty destination should be rejected")
	}
	// The precondition failure must not wipe the caller's files.
	if _, err := os.Stat(filepath.Join(dest, "main.tf")); err != nil {
		t.Error("existing files must survive a rejected clone")
	}
}

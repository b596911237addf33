// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Workspace seeding from git repositories

package fetcher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CloneConfig holds configuration for seeding a workspace from git.
type CloneConfig struct {
	URL          string    // repository URL (https or ssh form)
	Destination  string    // resolved workspace folder
	Reference    string    // optional branch or tag name
	ShallowClone bool      // depth=1 clone
	Progress     io.Writer // progress output, defaults to io.Discard
}

// CloneResult describes a completed clone.
type CloneResult struct {
	URL         string
	Destination string
	FilesCopied int
	BytesCopied int64
}

// Clone brings a configuration repository under the workspace root. The
// destination must be an already-resolved workspace folder; partial
// clones are removed on failure so a retry starts clean.
func Clone(config *CloneConfig) (*CloneResult, error) {
	if config == nil || config.URL == "" {
		return nil, fmt.Errorf("clone URL is empty")
	}
	if config.Destination == "" {
		return nil, fmt.Errorf("clone destination is empty")
	}
	if config.Progress == nil {
		config.Progress = io.Discard
	}

	entries, err := os.ReadDir(config.Destination)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read destination %s: %w", config.Destination, err)
	}
	if len(entries) > 0 {
		return nil, fmt.Errorf("destination is not empty: %s", config.Destination)
	}

	opts := &git.CloneOptions{
		URL:      config.URL,
		Progress: config.Progress,
	}
	if config.ShallowClone {
		opts.Depth = 1
		opts.SingleBranch = true
		opts.ReferenceName = plumbing.HEAD
	}
	if config.Reference != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(config.Reference)
		opts.SingleBranch = true
	}

	if _, err := git.PlainClone(config.Destination, false, opts); err != nil {
		_ = os.RemoveAll(config.Destination)
		return nil, fmt.Errorf("failed to clone repository: %w", err)
	}

	files, bytes := countFiles(config.Destination)
	return &CloneResult{
		URL:         config.URL,
		Destination: config.Destination,
		FilesCopied: files,
		BytesCopied: bytes,
	}, nil
}

// countFiles tallies files and bytes in a directory tree. Errors are
// ignored; the count is informational only.
func countFiles(dir string) (int, int64) {
	var files int
	var bytes int64
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		files++
		if info, err := d.Info(); err == nil {
			bytes += info.Size()
		}
		return nil
	})
	return files, bytes
}

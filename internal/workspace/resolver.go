// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Workspace folder resolution with root containment

package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sony-level/tf-broker/internal/outcome"
)

// Mode selects the existence policy applied after containment checks.
type Mode int

const (
	// MustExist rejects folders that are not already directories on disk.
	// Used by every read/execute command (init, plan, apply, state, ...).
	MustExist Mode = iota
	// CreateIfMissing creates the folder (and intermediate segments) on
	// demand. Used by export-type commands that write fresh trees.
	CreateIfMissing
)

// Root is the configured workspace root. It is fixed at startup; every
// resolved folder is a strict descendant of it.
type Root struct {
	path string
}

// NewRoot validates and canonicalizes the configured root directory.
func NewRoot(path string) (*Root, error) {
	if path == "" {
		return nil, fmt.Errorf("workspace root is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root %s: %w", path, err)
	}
	return &Root{path: filepath.Clean(abs)}, nil
}

// Path returns the canonical root directory.
func (r *Root) Path() string {
	return r.path
}

// Resolve maps a caller-supplied folder identifier to an absolute path
// under the root. The identifier is cleaned before joining so traversal
// segments cannot escape; absolute identifiers are accepted only when
// already contained. The root itself is never a valid workspace.
func (r *Root) Resolve(folder string, mode Mode) (string, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return "", outcome.Errorf(outcome.KindMissingArgument, "workspace folder is required")
	}

	var resolved string
	if filepath.IsAbs(folder) {
		resolved = filepath.Clean(folder)
	} else {
		resolved = filepath.Join(r.path, filepath.Clean(folder))
	}

	if !r.contains(resolved) {
		return "", outcome.Errorf(outcome.KindPathEscape,
			"path %q is outside the configured workspace root %q", resolved, r.path)
	}

	info, err := os.Stat(resolved)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", outcome.Errorf(outcome.KindWorkspaceNotFound,
				"workspace path is not a directory: %s", resolved)
		}
		return resolved, nil
	case os.IsNotExist(err):
		if mode == CreateIfMissing {
			if mkErr := os.MkdirAll(resolved, 0755); mkErr != nil {
				return "", fmt.Errorf("failed to create workspace folder %s: %w", resolved, mkErr)
			}
			return resolved, nil
		}
		return "", outcome.Errorf(outcome.KindWorkspaceNotFound,
			"workspace folder does not exist: %s", resolved)
	default:
		return "", fmt.Errorf("failed to stat workspace folder %s: %w", resolved, err)
	}
}

// contains reports whether p is a strict descendant of the root.
func (r *Root) contains(p string) bool {
	rel, err := filepath.Rel(r.path, p)
	if err != nil {
		return false
	}
	if rel == "." {
		// The root itself is not a workspace.
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ContainsTerraformFiles reports whether the folder holds any .tf or
// .tf.json file, searched recursively. Commands that run terraform
// require at least one.
func ContainsTerraformFiles(dir string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".tf") || strings.HasSuffix(path, ".tf.json") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

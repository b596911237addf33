// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Workspace folder management under the root

package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Info describes one workspace folder for listing.
type Info struct {
	Name     string
	Path     string
	Modified time.Time
	HasTF    bool
}

// List enumerates the immediate workspace folders under the root.
func (r *Root) List() ([]Info, error) {
	entries, err := os.ReadDir(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read workspace root: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		full := filepath.Join(r.path, entry.Name())
		info := Info{Name: entry.Name(), Path: full, HasTF: ContainsTerraformFiles(full)}
		if fi, err := entry.Info(); err == nil {
			info.Modified = fi.ModTime()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Create makes a new empty workspace folder, failing if it already
// exists so callers cannot silently reuse state.
func (r *Root) Create(folder string) (string, error) {
	resolved, err := r.Resolve(folder, CreateIfMissing)
	if err != nil {
		return "", err
	}
	entries, err := os.ReadDir(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to read new workspace folder: %w", err)
	}
	if len(entries) > 0 {
		return "", fmt.Errorf("workspace folder already exists and is not empty: %s", resolved)
	}
	return resolved, nil
}

// CleanStale removes workspace folders not modified within maxAge.
// Returns the number of folders removed.
func (r *Root) CleanStale(maxAge time.Duration) (int, error) {
	infos, err := r.List()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	cleaned := 0
	for _, info := range infos {
		if info.Modified.IsZero() || now.Sub(info.Modified) < maxAge {
			continue
		}
		if err := os.RemoveAll(info.Path); err == nil {
			cleaned++
		}
	}
	return cleaned, nil
}

package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoWorkspace is returned by Load when no workspace file exists on disk.
var ErrNoWorkspace = errors.New("no open workspace")

// Store persists the active Workspace to disk.
type Store interface {
	Save(w *Workspace) error
	Load() (*Workspace, error) // returns ErrNoWorkspace if none exists
	Delete() error
}

// diskStore is the concrete Store that writes to the XDG data directory.
type diskStore struct {
	path string // full path to workspace.json
}

// NewStore returns a Store backed by the XDG data directory.
// Path: $XDG_DATA_HOME/wheeltools/workspace.json or
// ~/.local/share/wheeltools/workspace.json
func NewStore() (Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: filepath.Join(dir, "workspace.json")}, nil
}

// dataDir returns the wheeltools-specific XDG data directory.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "wheeltools"), nil
}

// Save marshals w to JSON and writes it atomically via a temp file + os.Rename.
func (d *diskStore) Save(w *Workspace) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to persist workspace state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), "workspace-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist workspace state: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist workspace state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist workspace state: %w", err)
	}

	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist workspace state: %w", err)
	}
	return nil
}

// Load reads and unmarshals the workspace file.
// Returns ErrNoWorkspace if the file does not exist.
func (d *diskStore) Load() (*Workspace, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoWorkspace
		}
		return nil, fmt.Errorf("failed to read workspace state: %w", err)
	}

	var w Workspace
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse workspace state: %w", err)
	}
	return &w, nil
}

// Delete removes the workspace file from disk.
func (d *diskStore) Delete() error {
	if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete workspace state: %w", err)
	}
	return nil
}

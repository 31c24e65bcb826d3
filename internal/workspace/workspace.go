// Package workspace manages an unpacked working copy of a wheel archive.
//
// A workspace is opened from an archive, edited or exercised in place, and
// then either sealed back into an archive or discarded. Exactly one
// workspace is active at a time; its state lives in the store so separate
// CLI invocations all see the same working copy.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/fakeyudi/wheeltools/internal/archive"
)

// Workspace represents an archive opened for editing.
type Workspace struct {
	ID        string      `json:"id"`
	Source    string      `json:"source"`
	Root      string      `json:"root"`
	CreatedAt time.Time   `json:"created_at"`
	Baseline  []FileState `json:"baseline"`
	Runs      []RunRecord `json:"runs,omitempty"`
}

// FileState captures one file's identity at open time. Paths are
// root-relative with forward slashes, matching archive entry names.
type FileState struct {
	Path  string      `json:"path"`
	Size  uint64      `json:"size"`
	CRC32 uint32      `json:"crc32"`
	Mode  fs.FileMode `json:"mode"`
}

// RunRecord remembers a command executed inside the workspace.
type RunRecord struct {
	Raw      string    `json:"raw"`
	At       time.Time `json:"at"`
	ExitCode int       `json:"exit_code"`
}

// Open extracts the archive at source into a fresh directory under
// scratchDir and snapshots the tree as the change baseline.
func Open(source, scratchDir string) (*Workspace, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	id := uuid.NewString()
	root := filepath.Join(scratchDir, id)
	if err := archive.Extract(abs, root); err != nil {
		_ = os.RemoveAll(root)
		return nil, err
	}

	baseline, err := Snapshot(root)
	if err != nil {
		_ = os.RemoveAll(root)
		return nil, fmt.Errorf("scanning workspace: %w", err)
	}

	return &Workspace{
		ID:        id,
		Source:    abs,
		Root:      root,
		CreatedAt: time.Now().UTC(),
		Baseline:  baseline,
	}, nil
}

// Scan re-reads the tree and reports drift from the open-time baseline.
func (w *Workspace) Scan() ([]Change, error) {
	current, err := Snapshot(w.Root)
	if err != nil {
		return nil, fmt.Errorf("scanning workspace: %w", err)
	}
	return Diff(w.Baseline, current), nil
}

// Seal packs the workspace tree back into an archive and returns the path
// written. With an empty output the source archive is replaced; the pack
// goes through a temp file and rename, so the source is never left
// half-written.
func (w *Workspace) Seal(output string, opts archive.CreateOptions) (string, error) {
	dest := output
	if dest == "" {
		dest = w.Source
	}
	if err := archive.Create(w.Root, dest, opts); err != nil {
		return "", err
	}
	return dest, nil
}

// Record appends a run to the workspace history. The caller is responsible
// for saving the workspace afterwards.
func (w *Workspace) Record(raw string, exitCode int) {
	w.Runs = append(w.Runs, RunRecord{Raw: raw, At: time.Now().UTC(), ExitCode: exitCode})
}

// Discard removes the unpacked tree. Wheels can carry write-protected
// directories, which os.RemoveAll cannot descend into, so directory modes
// are widened first.
func (w *Workspace) Discard() error {
	_ = filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if info, err := d.Info(); err == nil {
				_ = os.Chmod(path, info.Mode().Perm()|0o700)
			}
		}
		return nil
	})
	if err := os.RemoveAll(w.Root); err != nil {
		return fmt.Errorf("removing workspace tree: %w", err)
	}
	return nil
}

// DefaultScratchDir returns the directory workspaces unpack into when no
// scratch_dir is configured: $XDG_DATA_HOME/wheeltools/work or the
// ~/.local/share fallback.
func DefaultScratchDir() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "work"), nil
}

package workspace

import (
	"hash/crc32"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/fakeyudi/wheeltools/internal/fsutil"
)

// ChangeKind classifies how a file drifted from the baseline.
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Modified ChangeKind = "modified"
	Removed  ChangeKind = "removed"
)

// Change reports one file that differs from the open-time baseline.
type Change struct {
	Path string     `json:"path"`
	Kind ChangeKind `json:"kind"`
}

// Snapshot walks the tree under root and records every regular file's size,
// CRC32, and permission bits. Paths come back root-relative with forward
// slashes, sorted. Symlinks are read through, matching how sealing packs
// them; directories and other non-regular entries carry no content and are
// skipped.
func Snapshot(root string) ([]FileState, error) {
	var states []FileState
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sum, err := fileCRC32(path)
		if err != nil {
			return err
		}
		states = append(states, FileState{
			Path:  filepath.ToSlash(rel),
			Size:  uint64(info.Size()),
			CRC32: sum,
			Mode:  info.Mode().Perm(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Path < states[j].Path })
	return states, nil
}

// Diff compares two snapshots and reports per-file drift, sorted by path.
// A change to permission bits alone counts as a modification.
func Diff(baseline, current []FileState) []Change {
	base := make(map[string]FileState, len(baseline))
	for _, st := range baseline {
		base[st.Path] = st
	}

	var changes []Change
	seen := make(map[string]bool, len(current))
	for _, cur := range current {
		seen[cur.Path] = true
		old, ok := base[cur.Path]
		if !ok {
			changes = append(changes, Change{Path: cur.Path, Kind: Added})
			continue
		}
		if old.Size != cur.Size || old.CRC32 != cur.CRC32 || old.Mode != cur.Mode {
			changes = append(changes, Change{Path: cur.Path, Kind: Modified})
		}
	}
	for _, old := range baseline {
		if !seen[old.Path] {
			changes = append(changes, Change{Path: old.Path, Kind: Removed})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

// fileCRC32 checksums a file with the same polynomial zip archives use, so a
// workspace file can be compared against an archive entry directly. Read
// permission is widened if the file denies it.
func fileCRC32(path string) (uint32, error) {
	var sum uint32
	err := fsutil.WithMode(path, fsutil.OwnerRead, func() error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		h := crc32.NewIEEE()
		if _, err := io.Copy(h, f); err != nil {
			return err
		}
		sum = h.Sum32()
		return nil
	})
	return sum, err
}

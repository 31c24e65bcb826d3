package workspace_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/wheeltools/internal/workspace"
)

// plantFiles writes rel→content files under a fresh root.
func plantFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// TestSnapshot verifies paths are sorted, slash-relative, and carry sizes.
func TestSnapshot(t *testing.T) {
	root := plantFiles(t, map[string]string{
		"pkg/__init__.py": "",
		"pkg/mod.py":      "x = 1\n",
		"README.md":       "hi\n",
	})

	states, err := workspace.Snapshot(root)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	var paths []string
	for _, st := range states {
		paths = append(paths, st.Path)
	}
	want := []string{"README.md", "pkg/__init__.py", "pkg/mod.py"}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	for _, st := range states {
		if st.Path == "pkg/mod.py" && st.Size != uint64(len("x = 1\n")) {
			t.Errorf("mod.py size = %d, want %d", st.Size, len("x = 1\n"))
		}
		if st.Mode != 0o644 {
			t.Errorf("%s mode = %o, want 644", st.Path, st.Mode)
		}
	}
}

// TestSnapshotStable verifies two snapshots of an untouched tree are equal.
func TestSnapshotStable(t *testing.T) {
	root := plantFiles(t, map[string]string{"a.py": "a", "b/c.py": "c"})

	first, err := workspace.Snapshot(root)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	second, err := workspace.Snapshot(root)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !slices.Equal(first, second) {
		t.Errorf("snapshots differ:\n%v\n%v", first, second)
	}
}

// TestDiff covers added, content-modified, mode-modified, and removed files.
func TestDiff(t *testing.T) {
	baseline := []workspace.FileState{
		{Path: "keep.py", Size: 1, CRC32: 10, Mode: 0o644},
		{Path: "edit.py", Size: 2, CRC32: 20, Mode: 0o644},
		{Path: "chmod.py", Size: 3, CRC32: 30, Mode: 0o644},
		{Path: "gone.py", Size: 4, CRC32: 40, Mode: 0o644},
	}
	current := []workspace.FileState{
		{Path: "keep.py", Size: 1, CRC32: 10, Mode: 0o644},
		{Path: "edit.py", Size: 5, CRC32: 99, Mode: 0o644},
		{Path: "chmod.py", Size: 3, CRC32: 30, Mode: 0o755},
		{Path: "new.py", Size: 6, CRC32: 60, Mode: 0o644},
	}

	got := workspace.Diff(baseline, current)
	want := []workspace.Change{
		{Path: "chmod.py", Kind: workspace.Modified},
		{Path: "edit.py", Kind: workspace.Modified},
		{Path: "gone.py", Kind: workspace.Removed},
		{Path: "new.py", Kind: workspace.Added},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Diff = %v, want %v", got, want)
	}
}

// generateSnapshot produces a snapshot with unique paths.
func generateSnapshot(t *rapid.T) []workspace.FileState {
	n := rapid.IntRange(0, 8).Draw(t, "n")
	states := make([]workspace.FileState, 0, n)
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		st := generateFileState(t, "snap")
		if seen[st.Path] {
			continue
		}
		seen[st.Path] = true
		states = append(states, st)
	}
	return states
}

// Feature: wheeltools, Property 7: Diff laws — a snapshot never drifts from
// itself, everything is added against an empty baseline, and everything is
// removed against an empty current state.
func TestDiffLaws(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := generateSnapshot(t)

		if changes := workspace.Diff(snap, snap); len(changes) != 0 {
			t.Fatalf("Diff(s, s) = %v, want empty", changes)
		}

		added := workspace.Diff(nil, snap)
		if len(added) != len(snap) {
			t.Fatalf("Diff(nil, s) reported %d changes, want %d", len(added), len(snap))
		}
		for _, c := range added {
			if c.Kind != workspace.Added {
				t.Fatalf("Diff(nil, s) contains kind %q", c.Kind)
			}
		}

		removed := workspace.Diff(snap, nil)
		if len(removed) != len(snap) {
			t.Fatalf("Diff(s, nil) reported %d changes, want %d", len(removed), len(snap))
		}
		for _, c := range removed {
			if c.Kind != workspace.Removed {
				t.Fatalf("Diff(s, nil) contains kind %q", c.Kind)
			}
		}
	})
}

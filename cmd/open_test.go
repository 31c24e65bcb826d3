package cmd

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/wheeltools/internal/workspace"
)

// executeCommand runs a cobra command with the given args and captures combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// buildArchive writes a zip holding the given name → contents pairs, in order.
func buildArchive(t *testing.T, names []string, contents map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "fixture-1.0-py3-none-any.whl")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(contents[name])); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close zip file: %v", err)
	}
	return zipPath
}

// isolateState points all wheeltools state and config lookups at tmp.
func isolateState(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", tmp)
	return tmp
}

// TestOpenAndStatus walks the open → status path end to end.
func TestOpenAndStatus(t *testing.T) {
	isolateState(t)

	wheel := buildArchive(t,
		[]string{"pkg/__init__.py", "pkg/core.py"},
		map[string]string{"pkg/__init__.py": "", "pkg/core.py": "x = 1\n"},
	)

	out, err := executeCommand(rootCmd, "open", wheel)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !strings.Contains(out, "Workspace open at ") {
		t.Errorf("expected open confirmation, got: %q", out)
	}

	out, err = executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"Source: " + wheel, "Baseline files: 2", "Changes: none"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q, got:\n%s", want, out)
		}
	}
}

// TestDoubleOpenError verifies that running "open" when a workspace is already
// active returns an error containing "workspace already open".
func TestDoubleOpenError(t *testing.T) {
	tmp := isolateState(t)

	// Pre-create workspace state on disk to simulate an open workspace.
	store, err := workspace.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	existing := &workspace.Workspace{
		ID:        "test-id",
		Source:    filepath.Join(tmp, "other.whl"),
		Root:      tmp,
		CreatedAt: time.Now(),
	}
	if err := store.Save(existing); err != nil {
		t.Fatalf("Save: %v", err)
	}

	wheel := buildArchive(t, []string{"a.txt"}, map[string]string{"a.txt": "a"})

	// Reset cobra state between runs.
	rootCmd.ResetFlags()

	out, err := executeCommand(rootCmd, "open", wheel)
	if err == nil {
		t.Fatal("expected an error from double-open, got nil")
	}
	combined := out + err.Error()
	if !strings.Contains(combined, "workspace already open") {
		t.Errorf("expected error to contain %q, got: %q", "workspace already open", combined)
	}
}

// TestOpenMissingArchive verifies the error shape for a nonexistent archive.
func TestOpenMissingArchive(t *testing.T) {
	tmp := isolateState(t)

	out, err := executeCommand(rootCmd, "open", filepath.Join(tmp, "missing.whl"))
	if err == nil {
		t.Fatal("expected an error for a missing archive, got nil")
	}
	combined := out + err.Error()
	if !strings.Contains(combined, "opening archive") {
		t.Errorf("expected error to contain %q, got: %q", "opening archive", combined)
	}
}

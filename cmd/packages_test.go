package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPackagesListsPackageDirs(t *testing.T) {
	isolateState(t)

	root := t.TempDir()
	for _, dir := range []string{"alpha", "beta", "plain"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	for _, dir := range []string{"alpha", "beta"} {
		if err := os.WriteFile(filepath.Join(root, dir, "__init__.py"), nil, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	out, err := executeCommand(rootCmd, "packages", root)
	if err != nil {
		t.Fatalf("packages: %v", err)
	}

	for _, want := range []string{filepath.Join(root, "alpha"), filepath.Join(root, "beta")} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "plain") {
		t.Errorf("non-package dir listed:\n%s", out)
	}
}

func TestPackagesNoneFound(t *testing.T) {
	isolateState(t)

	out, err := executeCommand(rootCmd, "packages", t.TempDir())
	if err != nil {
		t.Fatalf("packages: %v", err)
	}
	if !strings.Contains(out, "no package directories found") {
		t.Errorf("expected %q, got: %q", "no package directories found", out)
	}
}

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCmpIdentical(t *testing.T) {
	isolateState(t)

	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("same bytes"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	out, err := executeCommand(rootCmd, "cmp", a, b)
	if err != nil {
		t.Fatalf("cmp: %v", err)
	}
	if !strings.Contains(out, "identical") {
		t.Errorf("expected identical verdict, got: %q", out)
	}
}

func TestCmpDiffer(t *testing.T) {
	isolateState(t)

	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	if err := os.WriteFile(a, []byte("same bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(b, []byte("other bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := executeCommand(rootCmd, "cmp", a, b)
	if err == nil {
		t.Fatal("expected an error for differing files, got nil")
	}
	combined := out + err.Error()
	if !strings.Contains(combined, "files differ") {
		t.Errorf("expected error to contain %q, got: %q", "files differ", combined)
	}
}

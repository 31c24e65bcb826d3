package fsutil_test

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/wheeltools/internal/fsutil"
)

// writeTemp creates a file with exact permission bits inside a fresh temp dir.
// os.WriteFile applies the umask, so the bits are forced with a chmod after.
func writeTemp(t *testing.T, name string, data []byte, mode fs.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, mode); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("chmod %s: %v", name, err)
	}
	return path
}

func mustMode(t *testing.T, path string) fs.FileMode {
	t.Helper()
	m, err := fsutil.Mode(path)
	if err != nil {
		t.Fatalf("Mode(%s): %v", path, err)
	}
	return m
}

// TestMode verifies permission bits come back without file-type bits.
func TestMode(t *testing.T) {
	path := writeTemp(t, "f.txt", []byte("x"), 0o640)
	if got := mustMode(t, path); got != 0o640 {
		t.Errorf("Mode = %o, want 640", got)
	}
}

// TestModeMissingFile verifies a missing path surfaces fs.ErrNotExist.
func TestModeMissingFile(t *testing.T) {
	_, err := fsutil.Mode(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

// TestWithModeAddsAndRestores verifies missing bits are granted for the
// callback and the original bits come back afterwards.
func TestWithModeAddsAndRestores(t *testing.T) {
	path := writeTemp(t, "ro.txt", []byte("x"), 0o400)

	ran := false
	err := fsutil.WithMode(path, fsutil.OwnerWrite, func() error {
		ran = true
		if got := mustMode(t, path); got&fsutil.OwnerWrite == 0 {
			t.Errorf("write bit not granted inside callback, mode %o", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithMode: %v", err)
	}
	if !ran {
		t.Fatal("callback never ran")
	}
	if got := mustMode(t, path); got != 0o400 {
		t.Errorf("mode after WithMode = %o, want 400", got)
	}
}

// TestWithModeRestoresAfterCallbackError verifies bits are restored even when
// the callback fails, and the callback error is returned unchanged.
func TestWithModeRestoresAfterCallbackError(t *testing.T) {
	path := writeTemp(t, "ro.txt", []byte("x"), 0o400)

	boom := errors.New("boom")
	err := fsutil.WithMode(path, fsutil.OwnerWrite, func() error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected callback error, got %v", err)
	}
	if got := mustMode(t, path); got != 0o400 {
		t.Errorf("mode after failed callback = %o, want 400", got)
	}
}

// TestWithModeMissingFile verifies the callback still runs when the path does
// not exist; creating the file is the callback's concern.
func TestWithModeMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")

	err := fsutil.WithMode(path, fsutil.OwnerWrite, func() error {
		return os.WriteFile(path, []byte("fresh"), 0o644)
	})
	if err != nil {
		t.Fatalf("WithMode: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file was not created: %v", err)
	}
}

// TestEnsureWritable verifies the owner-write bit is granted and the restore
// func puts the original bits back.
func TestEnsureWritable(t *testing.T) {
	path := writeTemp(t, "ro.txt", []byte("x"), 0o444)

	restore, err := fsutil.EnsureWritable(path)
	if err != nil {
		t.Fatalf("EnsureWritable: %v", err)
	}
	if got := mustMode(t, path); got != 0o644 {
		t.Errorf("mode after EnsureWritable = %o, want 644", got)
	}
	restore()
	if got := mustMode(t, path); got != 0o444 {
		t.Errorf("mode after restore = %o, want 444", got)
	}
}

// TestEnsureWritableAlreadyWritable verifies a writable file is untouched.
func TestEnsureWritableAlreadyWritable(t *testing.T) {
	path := writeTemp(t, "rw.txt", []byte("x"), 0o644)

	restore, err := fsutil.EnsureWritable(path)
	if err != nil {
		t.Fatalf("EnsureWritable: %v", err)
	}
	restore()
	if got := mustMode(t, path); got != 0o644 {
		t.Errorf("mode = %o, want 644", got)
	}
}

// TestEnsureWritableMissingFile verifies a missing path is not an error and
// the returned restore func is callable.
func TestEnsureWritableMissingFile(t *testing.T) {
	restore, err := fsutil.EnsureWritable(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("EnsureWritable: %v", err)
	}
	restore()
}

// TestReadFileUnreadable verifies ReadFile can read a file whose mode denies
// owner-read, and restores the mode afterwards.
func TestReadFileUnreadable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root; permission checks are ineffective")
	}

	path := writeTemp(t, "locked.txt", []byte("locked"), 0o200)

	if _, err := os.ReadFile(path); err == nil {
		t.Fatal("expected direct read of write-only file to fail")
	}

	data, err := fsutil.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "locked" {
		t.Errorf("ReadFile = %q, want %q", data, "locked")
	}
	if got := mustMode(t, path); got != 0o200 {
		t.Errorf("mode after ReadFile = %o, want 200", got)
	}
}

// TestSameContents covers the equal, different-bytes, and different-size cases.
func TestSameContents(t *testing.T) {
	cases := []struct {
		name string
		a, b []byte
		want bool
	}{
		{"equal", []byte("wheel"), []byte("wheel"), true},
		{"both empty", nil, nil, true},
		{"same size different bytes", []byte("abcd"), []byte("abcx"), false},
		{"different sizes", []byte("abc"), []byte("abcdef"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			pa := filepath.Join(dir, "a")
			pb := filepath.Join(dir, "b")
			if err := os.WriteFile(pa, tc.a, 0o644); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(pb, tc.b, 0o644); err != nil {
				t.Fatal(err)
			}

			got, err := fsutil.SameContents(pa, pb)
			if err != nil {
				t.Fatalf("SameContents: %v", err)
			}
			if got != tc.want {
				t.Errorf("SameContents = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestSameContentsSpansChunks exercises files larger than one compare buffer.
func TestSameContentsSpansChunks(t *testing.T) {
	const size = 3*64*1024 + 17
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i * 31)
	}

	dir := t.TempDir()
	pa := filepath.Join(dir, "a")
	pb := filepath.Join(dir, "b")
	if err := os.WriteFile(pa, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pb, data, 0o644); err != nil {
		t.Fatal(err)
	}

	same, err := fsutil.SameContents(pa, pb)
	if err != nil {
		t.Fatalf("SameContents: %v", err)
	}
	if !same {
		t.Error("identical large files reported as different")
	}

	// Flip one byte in the last partial chunk.
	data[size-3] ^= 0xff
	if err := os.WriteFile(pb, data, 0o644); err != nil {
		t.Fatal(err)
	}
	same, err = fsutil.SameContents(pa, pb)
	if err != nil {
		t.Fatalf("SameContents: %v", err)
	}
	if same {
		t.Error("files differing in final chunk reported as equal")
	}
}

// TestSameContentsUnreadable verifies read permission is widened for the
// compare and restored afterwards.
func TestSameContentsUnreadable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root; permission checks are ineffective")
	}

	dir := t.TempDir()
	pa := filepath.Join(dir, "a")
	pb := filepath.Join(dir, "b")
	for _, p := range []string{pa, pb} {
		if err := os.WriteFile(p, []byte("secret"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chmod(p, 0o000); err != nil {
			t.Fatal(err)
		}
	}

	same, err := fsutil.SameContents(pa, pb)
	if err != nil {
		t.Fatalf("SameContents: %v", err)
	}
	if !same {
		t.Error("identical unreadable files reported as different")
	}
	for _, p := range []string{pa, pb} {
		if got := mustMode(t, p); got != 0o000 {
			t.Errorf("mode of %s after compare = %o, want 000", p, got)
		}
	}
}

// Feature: wheeltools, Property 3: WithMode leaves the file's permission bits
// exactly as it found them, for any starting mode and requested bits.
func TestWithModeRestoresArbitraryModes(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "f")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	modes := []fs.FileMode{0o000, 0o200, 0o400, 0o444, 0o600, 0o640, 0o644, 0o755}
	wants := []fs.FileMode{fsutil.OwnerRead, fsutil.OwnerWrite, fsutil.OwnerRead | fsutil.OwnerWrite}

	rapid.Check(t, func(t *rapid.T) {
		start := rapid.SampledFrom(modes).Draw(t, "start")
		want := rapid.SampledFrom(wants).Draw(t, "want")

		if err := os.Chmod(path, start); err != nil {
			t.Fatalf("chmod: %v", err)
		}

		err := fsutil.WithMode(path, want, func() error {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if got := info.Mode().Perm(); got&want != want {
				t.Fatalf("bits %o not granted inside callback, mode %o", want, got)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithMode: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if got := info.Mode().Perm(); got != start {
			t.Fatalf("mode after WithMode = %o, want %o", got, start)
		}
	})
}

// Feature: wheeltools, Property 4: SameContents agrees with bytes.Equal.
func TestSameContentsMatchesBytesEqual(t *testing.T) {
	tmp := t.TempDir()
	pa := filepath.Join(tmp, "a")
	pb := filepath.Join(tmp, "b")

	rapid.Check(t, func(t *rapid.T) {
		dataA := rapid.SliceOfN(rapid.Byte(), 0, 4096).Draw(t, "a")
		var dataB []byte
		if rapid.Bool().Draw(t, "copy") {
			dataB = append([]byte(nil), dataA...)
		} else {
			dataB = rapid.SliceOfN(rapid.Byte(), 0, 4096).Draw(t, "b")
		}

		if err := os.WriteFile(pa, dataA, 0o644); err != nil {
			t.Fatalf("write a: %v", err)
		}
		if err := os.WriteFile(pb, dataB, 0o644); err != nil {
			t.Fatalf("write b: %v", err)
		}

		got, err := fsutil.SameContents(pa, pb)
		if err != nil {
			t.Fatalf("SameContents: %v", err)
		}
		if want := bytes.Equal(dataA, dataB); got != want {
			t.Fatalf("SameContents = %v, bytes.Equal = %v", got, want)
		}
	})
}

package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"archive/zip"

	"github.com/fakeyudi/wheeltools/internal/fsutil"
)

// ErrUnsafePath reports an archive member whose name or link target would
// land outside the extraction directory.
var ErrUnsafePath = errors.New("archive member escapes extraction directory")

// Extract unpacks the archive at zipPath into dir, creating dir if needed.
// Permission bits stored in each entry are restored exactly; entries carrying
// no mode bits at all fall back to 0644 (0755 for directories). Existing
// read-only files are made writable for the overwrite and end up with the
// archive-supplied mode. Member names are validated so a crafted archive
// cannot write outside dir.
func Extract(zipPath, dir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", zipPath, err)
	}
	defer r.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating extraction dir: %w", err)
	}

	for _, f := range r.File {
		if err := extractOne(f, dir); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractOne(f *zip.File, dir string) error {
	name := filepath.FromSlash(f.Name)
	if !filepath.IsLocal(name) {
		return ErrUnsafePath
	}
	target := filepath.Join(dir, name)

	mode := f.Mode()
	switch {
	case f.FileInfo().IsDir():
		perm := mode.Perm()
		if perm == 0 {
			perm = 0o755
		}
		if err := os.MkdirAll(target, perm); err != nil {
			return err
		}
		// MkdirAll applies the umask; force the stored bits.
		return os.Chmod(target, perm)

	case mode&fs.ModeSymlink != 0:
		return extractSymlink(f, target)

	default:
		return extractFile(f, target)
	}
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}

	// An existing read-only target would make the truncating open fail.
	// The restore func is discarded: the archive's bits are authoritative
	// and get applied below.
	if _, err := fsutil.EnsureWritable(target); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// OpenFile applies the umask on create and leaves existing bits alone on
	// truncate; chmod makes the stored bits stick either way.
	if err := os.Chmod(target, perm); err != nil {
		return err
	}
	if !f.Modified.IsZero() {
		_ = os.Chtimes(target, f.Modified, f.Modified)
	}
	return nil
}

func extractSymlink(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	dest, err := io.ReadAll(io.LimitReader(rc, 4096))
	rc.Close()
	if err != nil {
		return err
	}

	// The link must stay inside the extraction root once resolved relative
	// to the entry's own directory.
	linkTarget := string(dest)
	resolved := path.Join(path.Dir(f.Name), filepath.ToSlash(linkTarget))
	if filepath.IsAbs(linkTarget) || !filepath.IsLocal(filepath.FromSlash(resolved)) {
		return ErrUnsafePath
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	_ = os.Remove(target)
	return os.Symlink(linkTarget, target)
}

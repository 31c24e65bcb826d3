package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"archive/zip"

	"github.com/fakeyudi/wheeltools/internal/fsutil"
)

// tmpPrefix marks in-progress archive files so a watcher rebuilding into its
// own tree does not chase its own writes.
const tmpPrefix = ".wheeltools-"

// CreateOptions adjust how a tree is packed.
type CreateOptions struct {
	// Exclude lists glob patterns. Entries matching by base name or by
	// archive-relative path are left out; matching directories are pruned
	// whole.
	Exclude []string
	// Store disables deflate compression.
	Store bool
}

// Create packs the tree rooted at dir into a zip archive at zipPath.
// Entry names are dir-relative with forward slashes, every entry keeps its
// source file's permission bits and mtime, and contents are deflated unless
// opts.Store is set. The archive is written to a temp file next to zipPath
// and renamed into place, so readers never observe a half-written archive.
// If zipPath lands inside dir it is skipped during the walk, so packing a
// tree into itself cannot recurse.
func Create(dir, zipPath string, opts CreateOptions) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("packing %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("packing %s: not a directory", dir)
	}

	absOut, err := filepath.Abs(zipPath)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(zipPath), tmpPrefix+"*.zip")
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", zipPath, err)
	}
	tmpPath := tmp.Name()
	absTmp, err := filepath.Abs(tmpPath)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	zw := zip.NewWriter(tmp)
	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() {
			if excluded(name, opts.Exclude) {
				return fs.SkipDir
			}
			return nil
		}
		if excluded(name, opts.Exclude) {
			return nil
		}

		// Resolve symlinks the way a tree copy would: links to files are
		// stored as their target's bytes, links to directories are skipped.
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if abs == absOut || abs == absTmp {
			return nil
		}
		return addFile(zw, p, name, info, opts.Store)
	})
	if walkErr != nil {
		zw.Close()
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("packing %s: %w", dir, walkErr)
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("finalizing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalizing archive: %w", err)
	}
	// CreateTemp makes files 0600; archives should be plain readable.
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, zipPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing archive %s: %w", zipPath, err)
	}
	return nil
}

// addFile writes one regular file into the archive under the given name.
func addFile(zw *zip.Writer, p, name string, info fs.FileInfo, store bool) error {
	fh, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	fh.Name = name
	fh.Method = zip.Deflate
	if store {
		fh.Method = zip.Store
	}
	fh.Modified = info.ModTime()
	// Perm() drops any file-type bits a resolved symlink might carry, so the
	// entry is always recorded as a plain file with the source's mode.
	fh.SetMode(info.Mode().Perm())

	w, err := zw.CreateHeader(fh)
	if err != nil {
		return err
	}
	// Wheels legitimately carry owner-unreadable files; widen for the read
	// and restore afterwards.
	return fsutil.WithMode(p, fsutil.OwnerRead, func() error {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
}

// excluded reports whether an archive-relative name matches any pattern,
// either by base name or by full relative path.
func excluded(name string, patterns []string) bool {
	base := path.Base(name)
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

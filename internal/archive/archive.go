// Package archive packs directory trees into wheel-style zip archives and
// unpacks them again without losing permission bits.
//
// Python's zipfile drops permissions on extract (CPython issue 15795), which
// is why wheel tooling historically shelled out to unzip. Everything here
// goes through archive/zip directly: permission bits are encoded into each
// entry's external attributes on pack and restored from them on unpack.
package archive

import (
	"fmt"
	"io/fs"
	"time"

	"archive/zip"
)

// Entry describes one member of an archive.
type Entry struct {
	Name       string
	Size       uint64
	Compressed uint64
	Mode       fs.FileMode
	Modified   time.Time
	IsDir      bool
	CRC32      uint32
}

// Summary aggregates an archive's contents for display.
type Summary struct {
	Path            string
	Files           int
	Dirs            int
	TotalSize       uint64
	TotalCompressed uint64
}

// Ratio returns the compressed size as a fraction of the uncompressed size.
// An archive with no file bytes reports 1.
func (s Summary) Ratio() float64 {
	if s.TotalSize == 0 {
		return 1
	}
	return float64(s.TotalCompressed) / float64(s.TotalSize)
}

// Report pairs a summary with the full entry listing. It is the unit the
// renderers and the inspect TUI consume.
type Report struct {
	Summary Summary
	Entries []Entry
}

// List returns the archive's entries in central directory order.
func List(zipPath string) ([]Entry, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", zipPath, err)
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, Entry{
			Name:       f.Name,
			Size:       f.UncompressedSize64,
			Compressed: f.CompressedSize64,
			Mode:       f.Mode(),
			Modified:   f.Modified,
			IsDir:      f.FileInfo().IsDir(),
			CRC32:      f.CRC32,
		})
	}
	return entries, nil
}

// Inspect reads the archive once and returns its report.
func Inspect(zipPath string) (*Report, error) {
	entries, err := List(zipPath)
	if err != nil {
		return nil, err
	}

	s := Summary{Path: zipPath}
	for _, e := range entries {
		if e.IsDir {
			s.Dirs++
			continue
		}
		s.Files++
		s.TotalSize += e.Size
		s.TotalCompressed += e.Compressed
	}
	return &Report{Summary: s, Entries: entries}, nil
}

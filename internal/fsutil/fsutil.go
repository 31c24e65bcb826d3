// Package fsutil provides permission-aware file helpers.
//
// Wheel trees routinely carry read-only files (RECORD hashes, vendored
// sources), so plain reads and overwrites fail in surprising places. The
// helpers here widen permission bits just long enough to act and then put
// the original bits back.
package fsutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Permission bits used when widening access to a file.
const (
	OwnerRead  fs.FileMode = 0o400
	OwnerWrite fs.FileMode = 0o200
)

// compareChunk is the buffer size used by SameContents.
const compareChunk = 64 * 1024

// Mode returns the permission bits of path, without file-type bits.
func Mode(path string) (fs.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode().Perm(), nil
}

// WithMode runs fn with the permission bits in want guaranteed on path.
// Missing bits are added before fn runs and the original bits are restored
// afterwards, whether or not fn failed. If path does not exist, fn runs
// without any chmod; whatever fn does about the absence is its business.
func WithMode(path string, want fs.FileMode, fn func() error) error {
	orig, err := Mode(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fn()
		}
		return err
	}
	if orig&want == want {
		return fn()
	}
	if err := os.Chmod(path, orig|want); err != nil {
		return fmt.Errorf("widening permissions on %s: %w", path, err)
	}
	defer func() { _ = os.Chmod(path, orig) }()
	return fn()
}

// EnsureWritable adds the owner-write bit to path if it is missing and
// returns a restore func that puts the original bits back. The restore func
// is never nil and is safe to call when nothing was changed.
func EnsureWritable(path string) (func(), error) {
	orig, err := Mode(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return func() {}, nil
		}
		return nil, err
	}
	if orig&OwnerWrite != 0 {
		return func() {}, nil
	}
	if err := os.Chmod(path, orig|OwnerWrite); err != nil {
		return nil, fmt.Errorf("making %s writable: %w", path, err)
	}
	return func() { _ = os.Chmod(path, orig) }, nil
}

// ReadFile reads path, temporarily granting owner-read if the file denies it.
func ReadFile(path string) ([]byte, error) {
	var data []byte
	err := WithMode(path, OwnerRead, func() error {
		var err error
		data, err = os.ReadFile(path)
		return err
	})
	return data, err
}

// SameContents reports whether the files at a and b hold identical bytes.
// Read permission is widened on both files for the duration of the compare.
// Files are read in fixed-size chunks so large archives never sit in memory
// whole.
func SameContents(a, b string) (bool, error) {
	same := false
	err := WithMode(a, OwnerRead, func() error {
		return WithMode(b, OwnerRead, func() error {
			var err error
			same, err = compareFiles(a, b)
			return err
		})
	})
	return same, err
}

func compareFiles(a, b string) (bool, error) {
	fa, err := os.Open(a)
	if err != nil {
		return false, err
	}
	defer fa.Close()

	fb, err := os.Open(b)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	ia, err := fa.Stat()
	if err != nil {
		return false, err
	}
	ib, err := fb.Stat()
	if err != nil {
		return false, err
	}
	// Different sizes cannot match; skip the read entirely.
	if ia.Mode().IsRegular() && ib.Mode().IsRegular() && ia.Size() != ib.Size() {
		return false, nil
	}

	bufA := make([]byte, compareChunk)
	bufB := make([]byte, compareChunk)
	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}

		doneA := errA == io.EOF || errA == io.ErrUnexpectedEOF
		doneB := errB == io.EOF || errB == io.ErrUnexpectedEOF
		if errA != nil && !doneA {
			return false, errA
		}
		if errB != nil && !doneB {
			return false, errB
		}
		// Equal chunk lengths mean the files reach EOF in the same round.
		if doneA || doneB {
			return true, nil
		}
	}
}

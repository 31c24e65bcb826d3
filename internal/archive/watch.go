package archive

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the tree must stay quiet before a repack runs.
const DefaultDebounce = 500 * time.Millisecond

// Watch packs dir into zipPath and then keeps the archive current, repacking
// whenever the tree changes, until ctx is cancelled. Change bursts are
// coalesced: a repack runs only after the tree has been quiet for debounce.
// A pending repack still runs on cancellation so the archive never lags the
// tree at exit.
func Watch(ctx context.Context, dir, zipPath string, opts CreateOptions, debounce time.Duration, logger zerolog.Logger) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	if err := Create(dir, zipPath, opts); err != nil {
		return err
	}
	logger.Info().Str("archive", zipPath).Msg("packed")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Walk the tree and add a watch for every subdirectory.
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	}); err != nil {
		return err
	}

	absOut, err := filepath.Abs(zipPath)
	if err != nil {
		return err
	}

	// Armed only while changes are pending.
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	dirty := false

	for {
		select {
		case <-ctx.Done():
			if dirty {
				if err := Create(dir, zipPath, opts); err != nil {
					return err
				}
				logger.Info().Str("archive", zipPath).Msg("final repack")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Ignore our own archive writes and in-progress temp files,
			// which show up when the archive lives inside the watched tree.
			if abs, err := filepath.Abs(event.Name); err == nil && abs == absOut {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), tmpPrefix) {
				continue
			}

			// If a new directory appeared, watch it too.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) ||
				event.Has(fsnotify.Chmod) {
				dirty = true
				timer.Reset(debounce)
				logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("tree changed")
			}

		case <-timer.C:
			if !dirty {
				continue
			}
			dirty = false
			if err := Create(dir, zipPath, opts); err != nil {
				// Keep watching; the next change retries the pack.
				logger.Error().Err(err).Msg("repack failed")
				continue
			}
			logger.Info().Str("archive", zipPath).Msg("repacked")

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; keep watching.
		}
	}
}

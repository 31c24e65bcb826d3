package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/wheeltools/internal/archive"
	"github.com/fakeyudi/wheeltools/internal/logging"
	"github.com/fakeyudi/wheeltools/internal/sliceutil"
)

var (
	packExclude  []string
	packStore    bool
	packWatch    bool
	packDebounce time.Duration
)

var packCmd = &cobra.Command{
	Use:   "pack <dir> <archive>",
	Short: "Pack a directory tree into a zip archive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, zipPath := args[0], args[1]

		cfg := GetConfig()
		exclude := append(append([]string{}, cfg.Exclude...), packExclude...)
		opts := archive.CreateOptions{
			Exclude: sliceutil.UniqueByIndex(exclude),
			Store:   packStore || cfg.Store(),
		}

		if packWatch {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return archive.Watch(ctx, dir, zipPath, opts, packDebounce, logging.New("watch"))
		}

		if err := archive.Create(dir, zipPath, opts); err != nil {
			return err
		}
		cmd.Printf("Packed %s into %s\n", dir, zipPath)
		return nil
	},
}

func init() {
	packCmd.Flags().StringArrayVarP(&packExclude, "exclude", "e", nil, "glob pattern to skip (repeatable, merged with config)")
	packCmd.Flags().BoolVar(&packStore, "store", false, "store entries without compression")
	packCmd.Flags().BoolVarP(&packWatch, "watch", "w", false, "keep running and repack whenever the tree changes")
	packCmd.Flags().DurationVar(&packDebounce, "debounce", archive.DefaultDebounce, "quiet period before a watch repack")
	rootCmd.AddCommand(packCmd)
}

package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/wheeltools/internal/archive"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack <archive> [dir]",
	Short: "Unpack a zip archive, restoring file modes and mtimes",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		zipPath := args[0]
		dir := "."
		if len(args) == 2 {
			dir = args[1]
		}

		if err := archive.Extract(zipPath, dir); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("file not found: %s", zipPath)
			}
			return err
		}
		cmd.Printf("Unpacked %s into %s\n", zipPath, dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unpackCmd)
}

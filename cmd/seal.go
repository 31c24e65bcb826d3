package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/wheeltools/internal/archive"
	"github.com/fakeyudi/wheeltools/internal/workspace"
)

var sealOutput string

var sealCmd = &cobra.Command{
	Use:   "seal",
	Short: "Repack the open workspace into its archive and close it",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := workspace.NewStore()
		if err != nil {
			return err
		}

		w, err := store.Load()
		if err != nil {
			if errors.Is(err, workspace.ErrNoWorkspace) {
				return fmt.Errorf("no open workspace")
			}
			return err
		}

		changes, err := w.Scan()
		if err != nil {
			return err
		}

		cfg := GetConfig()
		dest, err := w.Seal(sealOutput, archive.CreateOptions{
			Exclude: cfg.Exclude,
			Store:   cfg.Store(),
		})
		if err != nil {
			return err
		}

		if err := store.Delete(); err != nil {
			return err
		}
		if err := w.Discard(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}

		var added, modified, removed int
		for _, c := range changes {
			switch c.Kind {
			case workspace.Added:
				added++
			case workspace.Modified:
				modified++
			case workspace.Removed:
				removed++
			}
		}
		cmd.Printf("Workspace sealed (%d added, %d modified, %d removed). Output: %s\n",
			added, modified, removed, dest)
		return nil
	},
}

func init() {
	sealCmd.Flags().StringVarP(&sealOutput, "output", "o", "", "write the archive here instead of replacing the source")
	rootCmd.AddCommand(sealCmd)
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/wheeltools/internal/workspace"
)

var discardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Close the open workspace without writing an archive",
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

		if err := w.Discard(); err != nil {
			return err
		}
		if err := store.Delete(); err != nil {
			return err
		}

		cmd.Printf("Discarded workspace for %s\n", w.Source)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discardCmd)
}

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/wheeltools/internal/workspace"
)

var openCmd = &cobra.Command{
	Use:   "open <archive>",
	Short: "Unpack an archive into a managed workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := workspace.NewStore()
		if err != nil {
			return err
		}

		w, err := store.Load()
		if err != nil && !errors.Is(err, workspace.ErrNoWorkspace) {
			return err
		}
		if w != nil {
			return fmt.Errorf("workspace already open for %s (opened at %s)",
				w.Source, w.CreatedAt.Format(time.RFC3339))
		}

		scratch := GetConfig().ScratchDir
		if scratch == "" {
			scratch, err = workspace.DefaultScratchDir()
			if err != nil {
				return err
			}
		}

		opened, err := workspace.Open(args[0], scratch)
		if err != nil {
			return err
		}
		if err := store.Save(opened); err != nil {
			return err
		}

		cmd.Printf("Workspace open at %s\n", opened.Root)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}

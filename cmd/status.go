package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/wheeltools/internal/workspace"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the open workspace and its drift from the archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := workspace.NewStore()
		if err != nil {
			return err
		}

		w, err := store.Load()
		if err != nil {
			if errors.Is(err, workspace.ErrNoWorkspace) {
				cmd.Println("no open workspace")
				return nil
			}
			return err
		}

		changes, err := w.Scan()
		if err != nil {
			return err
		}

		cmd.Printf("Source: %s\n", w.Source)
		cmd.Printf("Root: %s\n", w.Root)
		cmd.Printf("Opened: %s\n", w.CreatedAt.Format(time.RFC3339))
		cmd.Printf("Age: %s\n", time.Since(w.CreatedAt).Round(time.Second).String())
		cmd.Printf("Baseline files: %d\n", len(w.Baseline))
		cmd.Printf("Runs: %d\n", len(w.Runs))

		if len(changes) == 0 {
			cmd.Println("Changes: none")
			return nil
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
		cmd.Printf("Changes: %d added, %d modified, %d removed\n", added, modified, removed)
		for _, c := range changes {
			cmd.Printf("  %-9s %s\n", c.Kind, c.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

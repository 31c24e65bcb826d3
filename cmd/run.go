package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/wheeltools/internal/runx"
	"github.com/fakeyudi/wheeltools/internal/workspace"
)

// runner is swapped out in tests.
var runner runx.Runner = runx.Capture

var runCmd = &cobra.Command{
	Use:   "run <command> [args...]",
	Short: "Run a command inside the open workspace",
	Long: "Run a command with the workspace root as its working directory. " +
		"The command line and exit code are recorded in the workspace history.",
	Args: cobra.MinimumNArgs(1),
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

		res, err := runner(cmd.Context(), w.Root, args[0], args[1:]...)
		if err != nil {
			return err
		}

		// Record the run before reporting failure; a failed command is
		// still part of the workspace history.
		raw := runx.CommandLine(args[0], args[1:])
		w.Record(raw, res.ExitCode)
		if err := store.Save(w); err != nil {
			return err
		}

		if res.Stdout != "" {
			cmd.Println(res.Stdout)
		}
		if res.Stderr != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Stderr)
		}
		if res.ExitCode != 0 {
			return &runx.ExitError{Cmd: raw, Code: res.ExitCode, Stderr: res.Stderr}
		}
		return nil
	},
}

func init() {
	// Everything after the command name belongs to the command being run.
	runCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(runCmd)
}

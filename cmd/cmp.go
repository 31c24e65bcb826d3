package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/wheeltools/internal/fsutil"
)

var cmpCmd = &cobra.Command{
	Use:   "cmp <file1> <file2>",
	Short: "Compare two files byte by byte",
	Long: "Compare two files byte by byte, temporarily widening permissions when " +
		"a file is unreadable. Exits nonzero when the contents differ.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		same, err := fsutil.SameContents(args[0], args[1])
		if err != nil {
			return err
		}
		if !same {
			return fmt.Errorf("files differ: %s %s", args[0], args[1])
		}
		cmd.Printf("%s and %s are identical\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cmpCmd)
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/wheeltools/internal/pyscan"
)

var packagesCmd = &cobra.Command{
	Use:   "packages [root]",
	Short: "List Python package directories under a root",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		dirs, err := pyscan.PackageDirs(root)
		if err != nil {
			return err
		}
		if len(dirs) == 0 {
			cmd.Println("no package directories found")
			return nil
		}
		for _, dir := range dirs {
			cmd.Println(dir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packagesCmd)
}

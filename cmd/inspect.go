package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/wheeltools/internal/archive"
	"github.com/fakeyudi/wheeltools/internal/tui"
)

var (
	inspectPlain  bool
	inspectFormat string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <archive>",
	Short: "Inspect the contents of a wheel or zip archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		report, err := archive.Inspect(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		var renderer archive.Renderer
		switch strings.ToLower(inspectFormat) {
		case "json":
			renderer = &archive.JSONRenderer{}
		case "", "text":
			renderer = &archive.TextRenderer{}
		default:
			return fmt.Errorf("unknown format %q (want text or json)", inspectFormat)
		}

		// The TUI only makes sense on an interactive terminal.
		if inspectPlain || inspectFormat != "" || !term.IsTerminal(os.Stdout.Fd()) {
			data, err := renderer.Render(report)
			if err != nil {
				return err
			}
			if len(data) > 0 && data[len(data)-1] != '\n' {
				data = append(data, '\n')
			}
			cmd.Print(string(data))
			return nil
		}
		return tui.Run(report, path)
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectPlain, "plain", false, "plain text output instead of TUI")
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "", "output format: text or json (implies --plain)")
	rootCmd.AddCommand(inspectCmd)
}

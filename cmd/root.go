package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/wheeltools/internal/config"
	"github.com/fakeyudi/wheeltools/internal/logging"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "wheeltools",
	Short: "Pack, unpack and inspect Python wheel archives",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.ConfigureRuntime()

		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		project, err := config.LoadProject(cwd)
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		if err := cfg.Validate(); err != nil {
			return err
		}

		// The env knob wins over the config file.
		if cfg.LogLevel != "" && os.Getenv(logging.EnvLogLevel) == "" {
			logging.SetLevel(cfg.LogLevel)
		}

		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Strongroom configuration",
	Long: `Provides commands for viewing and creating config.toml.

Settings not present in config.toml take their default values.

Examples:
  # Show the effective configuration
  strongroom config show

  # Write the defaults, using SQLite for tables
  strongroom config init --backend sqlite`,
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

// resetConfigCommandState resets the config commands' global state for testing.
func resetConfigCommandState() {
	resetConfigShowState()
	resetConfigInitState()
}

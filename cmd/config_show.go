package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/configs"
	"github.com/PolarWolf314/strongroom/internal/utils"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")
		Logger.Debugf("Loading config from %s", configs.StrongroomSettings.ConfigPath)

		config, err := configs.LoadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		out := cmd.OutOrStdout()
		if configShowJSON {
			data, err := json.MarshalIndent(config, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to encode config: %v", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if !utils.FileExists(configs.StrongroomSettings.ConfigPath) {
			fmt.Fprintf(out, "# %s does not exist; showing defaults\n", configs.StrongroomSettings.ConfigPath)
		}
		if err := toml.NewEncoder(out).Encode(config); err != nil {
			return Logger.ErrorfAndReturn("Failed to encode config: %v", err)
		}
		return nil
	},
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/configs"
	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/utils"
)

var (
	configInitBackend string
	configInitForce   bool
)

func init() {
	configInitCmd.Flags().StringVar(&configInitBackend, "backend", configs.BackendXLSX, `table storage, "xlsx" or "sqlite"`)
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config.toml")
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitBackend = configs.BackendXLSX
	configInitForce = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write config.toml with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")
		spinner, cleanup := startSpinner(cmd, "Writing configuration...")
		defer cleanup()

		path := configs.StrongroomSettings.ConfigPath
		if utils.FileExists(path) && !configInitForce {
			spinner.FinalMSG = ui.Cross() + " " + ui.Path.Sprint(path) + " already exists\n" +
				ui.Arrow() + " To overwrite it, run: " + ui.Code.Sprint("strongroom config init --force")
			return ErrAlreadyReported
		}

		config := configs.DefaultConfig()
		config.Storage.Backend = configInitBackend
		if err := configs.SaveConfig(config); err != nil {
			spinner.FinalMSG = ui.Cross() + " " + err.Error()
			return ErrAlreadyReported
		}

		Logger.Infof("Wrote %s", path)
		spinner.FinalMSG = ui.Tick() + " Created " + ui.Path.Sprint(path)
		return nil
	},
}

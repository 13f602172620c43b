package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/configs"
	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a master passphrase exists and where data is kept",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		config, err := configs.LoadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		settings := configs.StrongroomSettings
		msg := ""
		if workflows.IsMasterSet() {
			msg = ui.Tick() + " Master passphrase is set\n"
		} else {
			msg = ui.Cross() + " No master passphrase\n" +
				ui.Arrow() + " Run " + ui.Code.Sprint("strongroom setup") + " to create one\n"
		}
		msg += "    data:    " + ui.Path.Sprint(settings.DataDir) + "\n" +
			"    config:  " + ui.Path.Sprint(settings.ConfigPath) + "\n" +
			"    backend: " + ui.Highlight.Sprint(config.Storage.Backend) + "\n"

		fmt.Fprint(cmd.OutOrStdout(), msg)
		return nil
	},
}

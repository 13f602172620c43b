package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vault entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting vault list command")
		spinner, cleanup := startSpinner(cmd, "Reading vault...")
		defer cleanup()

		if err := unlock(cmd, spinner); err != nil {
			return fail(spinner, err)
		}

		entries, err := workflows.ListEntries(cmd.Context())
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read vault: %v", err)
		}

		if len(entries) == 0 {
			spinner.FinalMSG = ui.Arrow() + " The vault is empty\n" +
				ui.Arrow() + " Run " + ui.Code.Sprint("strongroom vault add") + " to store a password"
			return nil
		}

		spinner.FinalMSG = formatEntries(entries, showPasswords)
		return nil
	},
}

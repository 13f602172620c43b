package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/configs"
	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the master passphrase",
	Long: `Creates the master passphrase that guards every other command.

The passphrase is asked for twice and must match. Only a salted, iterated
hash is stored. There is no way to recover a forgotten passphrase.

Examples:
  strongroom setup
  printf 'secret\nsecret\n' | strongroom setup --passphrase-stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting setup command")
		spinner, cleanup := startSpinner(cmd, "Creating master passphrase...")
		defer cleanup()

		if workflows.IsMasterSet() {
			return fail(spinner, serrors.ErrMasterAlreadySet)
		}

		passphrase, err := readPassphrase(spinner, "New master passphrase: ")
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read passphrase: %v", err)
		}
		defer clear(passphrase)

		confirmation, err := readPassphrase(spinner, "Confirm master passphrase: ")
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read passphrase: %v", err)
		}
		defer clear(confirmation)

		err = workflows.CreateMaster(cmd.Context(), workflows.CreateMasterOptions{
			Passphrase:   passphrase,
			Confirmation: confirmation,
		})
		if err != nil {
			return fail(spinner, err)
		}

		Logger.Infof("Master passphrase stored at %s", configs.StrongroomSettings.MasterCredentialPath())
		spinner.FinalMSG = ui.Tick() + " Master passphrase created\n" +
			ui.Arrow() + " Keep it safe. It cannot be recovered."
		return nil
	},
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

var vaultRekeyCmd = &cobra.Command{
	Use:   "rekey",
	Short: "Replace the vault key and re-encrypt every password",
	Long: `Generates a new vault master key and re-encrypts every stored password
under it. Passwords that no longer decrypt are left untouched and reported.
If the vault cannot be rewritten the old key stays in use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting vault rekey command")
		spinner, cleanup := startSpinner(cmd, "Rotating vault key...")
		defer cleanup()

		if err := unlock(cmd, spinner); err != nil {
			return fail(spinner, err)
		}

		result, err := workflows.RotateVaultKey(cmd.Context())
		if err != nil {
			return fail(spinner, err)
		}

		Logger.Infof("Resealed %d passwords, skipped %d", result.Resealed, result.Skipped)
		msg := ui.Tick() + fmt.Sprintf(" Vault key rotated, %d %s re-encrypted",
			result.Resealed, plural(result.Resealed, "password", "passwords"))
		if result.Skipped > 0 {
			msg += "\n" + ui.Warning.Sprint("!") + fmt.Sprintf(" %d %s could not be decrypted and %s left as is",
				result.Skipped, plural(result.Skipped, "password", "passwords"), plural(result.Skipped, "was", "were"))
		}
		spinner.FinalMSG = msg
		return nil
	},
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/vault"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

var vaultAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a password to the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting vault add command")
		spinner, cleanup := startSpinner(cmd, "Adding vault entry...")
		defer cleanup()

		if err := unlock(cmd, spinner); err != nil {
			return fail(spinner, err)
		}

		password, err := entryPasswordFromFlags(cmd, spinner)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read password: %v", err)
		}

		entry, err := workflows.AddEntry(cmd.Context(), vault.Entry{
			Website:  entryWebsite,
			Name:     entryName,
			Contact:  entryContact,
			Password: password,
			Category: entryCategory,
		})
		if err != nil {
			return fail(spinner, err)
		}

		Logger.Infof("Added vault entry %s", entry.ID)
		spinner.FinalMSG = ui.Tick() + " Saved " + ui.Highlight.Sprint(entry.Website) +
			" under " + ui.Highlight.Sprint(entry.Category) + "\n" +
			"    id: " + entry.ID
		return nil
	},
}

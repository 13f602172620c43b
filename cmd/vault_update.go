package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/vault"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

var vaultUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change fields of a vault entry",
	Long: `Changes the fields given as flags and keeps the rest.

The entry is selected with --id, or with --row as shown by vault list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting vault update command")
		spinner, cleanup := startSpinner(cmd, "Updating vault entry...")
		defer cleanup()

		if entryID == "" && entryRow < 1 {
			return fail(spinner, fmt.Errorf("%w: --id or --row", serrors.ErrMissingSecret))
		}

		if err := unlock(cmd, spinner); err != nil {
			return fail(spinner, err)
		}

		entries, err := workflows.ListEntries(cmd.Context())
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read vault: %v", err)
		}
		current, ok := findEntry(entries, entryID, entryRow)
		if !ok {
			return fail(spinner, serrors.ErrEntryNotFound)
		}

		changed := cmd.Flags().Changed
		if changed("website") {
			current.Website = entryWebsite
		}
		if changed("name") {
			current.Name = entryName
		}
		if changed("contact") {
			current.Contact = entryContact
		}
		if changed("password") {
			current.Password = entryPassword
		} else if current.Password == vault.DecryptErrorPlaceholder {
			return fail(spinner, fmt.Errorf("%w: the stored password cannot be decrypted, pass --password", serrors.ErrMissingSecret))
		}
		if changed("category") {
			current.Category = entryCategory
		}

		updated, err := workflows.UpdateEntry(cmd.Context(), workflows.UpdateEntryOptions{
			ID:    entryID,
			Row:   current.Row,
			Entry: current,
		})
		if err != nil {
			return fail(spinner, err)
		}

		Logger.Infof("Updated vault entry %s", updated.ID)
		spinner.FinalMSG = ui.Tick() + " Updated " + ui.Highlight.Sprint(updated.Website)
		return nil
	},
}

func findEntry(entries []vault.Entry, id string, row int) (vault.Entry, bool) {
	for _, e := range entries {
		if (id != "" && e.ID == id) || (id == "" && e.Row == row) {
			return e, true
		}
	}
	return vault.Entry{}, false
}

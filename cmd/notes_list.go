package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/utils"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List note file names, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting notes list command")
		spinner, cleanup := startSpinner(cmd, "Listing notes...")
		defer cleanup()

		if err := unlock(cmd, spinner); err != nil {
			return fail(spinner, err)
		}

		files, err := workflows.ListNotes(cmd.Context(), noteMatch)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to list notes: %v", err)
		}

		if len(files) == 0 {
			spinner.FinalMSG = ui.Arrow() + " No notes found"
			return nil
		}

		spinner.FinalMSG = fmt.Sprintf("%s %d %s", ui.Tick(), len(files), plural(len(files), "note", "notes")) +
			utils.FormatPaths(files)
		return nil
	},
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

var notesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Seal a new note and print its key",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting notes create command")
		spinner, cleanup := startSpinner(cmd, "Creating note...")
		defer cleanup()

		content, _, err := contentFromFlags(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		if err := unlock(cmd, spinner); err != nil {
			return fail(spinner, err)
		}

		result, err := workflows.CreateNote(cmd.Context(), workflows.CreateNoteOptions{
			Title:   noteTitle,
			Content: content,
		})
		if err != nil {
			return fail(spinner, err)
		}

		Logger.Infof("Created note %s", result.Filename)
		spinner.FinalMSG = ui.Tick() + " Note " + ui.Highlight.Sprint(noteTitle) + " created\n" +
			formatNoteKey(result.Filename, result.Key)
		return nil
	},
}

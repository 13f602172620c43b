package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

var notesOpenCmd = &cobra.Command{
	Use:   "open <file>",
	Short: "Decrypt a note and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting notes open command")
		spinner, cleanup := startSpinner(cmd, "Opening note...")
		defer cleanup()

		if err := unlock(cmd, spinner); err != nil {
			return fail(spinner, err)
		}

		key, err := readNoteKey(cmd, spinner)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read note key: %v", err)
		}

		note, err := workflows.ReadNote(cmd.Context(), args[0], key)
		if err != nil {
			return fail(spinner, err)
		}

		Logger.Debugf("Opened note %s", note.Filename)
		spinner.FinalMSG = ui.Tick() + " " + ui.Highlight.Sprint(note.Title) + "\n" + note.Content
		return nil
	},
}

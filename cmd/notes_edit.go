package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

var notesEditCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Replace a note's title or content and rotate its key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting notes edit command")
		spinner, cleanup := startSpinner(cmd, "Saving note...")
		defer cleanup()

		content, contentChanged, err := contentFromFlags(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		if err := unlock(cmd, spinner); err != nil {
			return fail(spinner, err)
		}

		key, err := readNoteKey(cmd, spinner)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read note key: %v", err)
		}

		title := noteTitle
		titleChanged := cmd.Flags().Changed("title")
		if !titleChanged || !contentChanged {
			Logger.Debugf("Reading the current note to keep unchanged fields")
			current, err := workflows.ReadNote(cmd.Context(), args[0], key)
			if errors.Is(err, serrors.ErrInvalidKey) {
				return fail(spinner, serrors.ErrIncorrectKey)
			}
			if err != nil {
				return fail(spinner, err)
			}
			if !titleChanged {
				title = current.Title
			}
			if !contentChanged {
				content = current.Content
			}
		}

		result, err := workflows.SaveNote(cmd.Context(), workflows.SaveNoteOptions{
			Filename:   args[0],
			CurrentKey: key,
			Title:      title,
			Content:    content,
		})
		if err != nil {
			return fail(spinner, err)
		}

		Logger.Infof("Saved note %s under a new key", result.Filename)
		spinner.FinalMSG = ui.Tick() + " Note saved. The old key no longer works.\n" +
			formatNoteKey(result.Filename, result.Key)
		return nil
	},
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/folders"
	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

// FoldersCmd groups the folder locker commands.
var FoldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Lock and unlock folders",
	Long: `Locking a folder denies the current user read and execute access to it.
On Windows this uses icacls; elsewhere it clears the owner's permission bits.

Examples:
  strongroom folders lock ~/private
  strongroom folders unlock ~/private
  strongroom folders list`,
}

func init() {
	FoldersCmd.AddCommand(foldersLockCmd)
	FoldersCmd.AddCommand(foldersUnlockCmd)
	FoldersCmd.AddCommand(foldersListCmd)
}

var foldersLockCmd = &cobra.Command{
	Use:   "lock <path>",
	Short: "Lock a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting folders lock command")
		return runFolderAction(cmd, "Locking folder...", args[0], workflows.LockFolder)
	},
}

var foldersUnlockCmd = &cobra.Command{
	Use:   "unlock <path>",
	Short: "Unlock a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting folders unlock command")
		return runFolderAction(cmd, "Unlocking folder...", args[0], workflows.UnlockFolder)
	},
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders and their last recorded status",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting folders list command")
		spinner, cleanup := startSpinner(cmd, "Reading folders...")
		defer cleanup()

		if err := unlock(cmd, spinner); err != nil {
			return fail(spinner, err)
		}

		records, err := workflows.ListFolders(cmd.Context())
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read folders: %v", err)
		}

		if len(records) == 0 {
			spinner.FinalMSG = ui.Arrow() + " No folders have been locked"
			return nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s %d folder(s)\n", ui.Tick(), len(records))
		for _, r := range records {
			fmt.Fprintf(&b, "    %s %s %s\n", formatFolderStatus(r.Status), ui.Path.Sprint(r.Path), ui.Muted.Sprint(r.Date))
		}
		spinner.FinalMSG = b.String()
		return nil
	},
}

func runFolderAction(cmd *cobra.Command, message, path string, action func(ctx context.Context, path string) (*folders.Record, error)) error {
	spinner, cleanup := startSpinner(cmd, message)
	defer cleanup()

	if err := unlock(cmd, spinner); err != nil {
		return fail(spinner, err)
	}

	record, err := action(cmd.Context(), path)
	if err != nil {
		return fail(spinner, err)
	}

	Logger.Infof("%s is now %s", record.Path, record.Status)
	spinner.FinalMSG = ui.Tick() + " " + ui.Path.Sprint(record.Path) + " is now " + formatFolderStatus(record.Status)
	return nil
}

func formatFolderStatus(status string) string {
	if status == folders.StatusLocked {
		return ui.Warning.Sprint(status)
	}
	return ui.Success.Sprint(status)
}

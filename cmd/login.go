package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check the master passphrase and show the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting login command")
		return runDashboard(cmd, "Logged in")
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show how many notes, vault entries, and locked folders exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting dashboard command")
		return runDashboard(cmd, "Dashboard")
	},
}

func runDashboard(cmd *cobra.Command, heading string) error {
	spinner, cleanup := startSpinner(cmd, "Unlocking...")
	defer cleanup()

	if err := unlock(cmd, spinner); err != nil {
		return fail(spinner, err)
	}

	result, err := workflows.Dashboard(cmd.Context())
	if err != nil {
		return fail(spinner, err)
	}

	spinner.FinalMSG = ui.Tick() + " " + heading + "\n" + formatDashboard(result)
	return nil
}

func formatDashboard(result *workflows.DashboardResult) string {
	return fmt.Sprintf("    notes:          %d\n", result.Notes) +
		fmt.Sprintf("    vault entries:  %d\n", result.VaultEntries) +
		fmt.Sprintf("    locked folders: %d", result.LockedFolders)
}

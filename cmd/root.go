package cmd

import (
	"bufio"
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	logger "github.com/PolarWolf314/strongroom/internal/logging"
	"github.com/PolarWolf314/strongroom/internal/ui"
)

var (
	verbose         bool
	debug           bool
	passphraseStdin bool
	Logger          logger.Logger

	// input wraps the command's stdin so several lines can be read in one run.
	input *bufio.Reader

	RootCmd = &cobra.Command{
		Use:   "strongroom",
		Short: "Strongroom - a local vault for notes, passwords, and folders.",
		Long: `Strongroom keeps encrypted notes, a password vault, and locked folders
behind a single master passphrase. Everything stays on this machine.

Each note is sealed under its own short key. The key changes every time the
note is saved, so keep the latest one.

Examples:
  # Create the master passphrase
  strongroom setup

  # Write a note and get its key
  strongroom notes create --title "Shopping List" --content "eggs"

  # Store a password
  strongroom vault add --website example.com --password hunter2

  # Serve the JSON API on localhost
  strongroom serve`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				Out:     cmd.OutOrStdout(),
				Err:     cmd.ErrOrStderr(),
			}
			input = bufio.NewReader(cmd.InOrStdin())
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprint(out, figure.NewFigure("Strongroom", "standard", true).String())
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Welcome to Strongroom! Run "+ui.Code.Sprint("strongroom --help")+" to see available commands.")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().BoolVar(&passphraseStdin, "passphrase-stdin", false, "read the master passphrase from the first line of stdin")

	RootCmd.AddCommand(setupCmd)
	RootCmd.AddCommand(loginCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(dashboardCmd)
	RootCmd.AddCommand(NotesCmd)
	RootCmd.AddCommand(VaultCmd)
	RootCmd.AddCommand(FoldersCmd)
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(ConfigCmd)
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	passphraseStdin = false
	input = nil
	resetNotesCommandState()
	resetVaultCommandState()
	resetConfigCommandState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears Changed on every flag so tests do not leak into each other.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetCobraFlagState(child)
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}

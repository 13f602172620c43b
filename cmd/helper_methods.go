package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/utils"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

// ErrAlreadyReported is returned by a command that has printed its own failure
// message. main exits non-zero without printing it again.
var ErrAlreadyReported = errors.New("error already reported")

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// writes the final message to the command's stdout with ui.EnsureNewline.
func startSpinner(cmd *cobra.Command, message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(cmd.OutOrStdout(), finalMsg)
		}
	}

	return s, cleanup
}

// readPassphrase reads a passphrase from stdin when --passphrase-stdin is set,
// otherwise from the terminal without echo.
func readPassphrase(s *spinner.Spinner, prompt string) ([]byte, error) {
	if passphraseStdin {
		Logger.Debugf("Reading passphrase from stdin")
		line, err := utils.ReadLine(input)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	if s != nil && s.Active() {
		s.Stop()
		defer s.Restart()
	}
	return utils.ReadPassphrase(prompt)
}

// unlock asks for the master passphrase and verifies it.
func unlock(cmd *cobra.Command, s *spinner.Spinner) error {
	passphrase, err := readPassphrase(s, "Master passphrase: ")
	if err != nil {
		return err
	}
	defer clear(passphrase)

	Logger.Debugf("Verifying master passphrase")
	ok, err := workflows.VerifyMaster(cmd.Context(), passphrase)
	if err != nil {
		return err
	}
	if !ok {
		return serrors.ErrUnauthenticated
	}
	Logger.Infof("Master passphrase verified")
	return nil
}

// describeError returns a user-facing message for errors the user can act on.
func describeError(err error) (string, bool) {
	switch {
	case errors.Is(err, serrors.ErrMasterNotSet):
		return "No master passphrase has been created\n" +
			ui.Arrow() + " Run " + ui.Code.Sprint("strongroom setup") + " first", true
	case errors.Is(err, serrors.ErrMasterAlreadySet):
		return "A master passphrase already exists", true
	case errors.Is(err, serrors.ErrPassphraseMismatch):
		return "Passphrases do not match", true
	case errors.Is(err, serrors.ErrUnauthenticated):
		return "Invalid master passphrase", true
	case errors.Is(err, serrors.ErrInvalidKey):
		return "Invalid key", true
	case errors.Is(err, serrors.ErrIncorrectKey):
		return "The current key is incorrect", true
	case errors.Is(err, serrors.ErrMissingSecret),
		errors.Is(err, serrors.ErrUnsupportedText),
		errors.Is(err, serrors.ErrCellTooLong):
		return err.Error(), true
	case errors.Is(err, serrors.ErrNotFound),
		errors.Is(err, serrors.ErrEntryNotFound),
		errors.Is(err, serrors.ErrFolderNotFound):
		return err.Error(), true
	case errors.Is(err, serrors.ErrFolderCommandFailed),
		errors.Is(err, serrors.ErrTableLayout):
		return err.Error(), true
	}
	return "", false
}

// fail reports err through the spinner's final message when the user can act
// on it, and returns it as a plain error otherwise.
func fail(s *spinner.Spinner, err error) error {
	msg, known := describeError(err)
	if !known {
		return Logger.ErrorfAndReturn("%v", err)
	}
	Logger.Infof("Command failed: %v", err)
	s.FinalMSG = ui.Cross() + " " + msg
	return ErrAlreadyReported
}

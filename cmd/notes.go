package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/ui"
)

var (
	noteTitle       string
	noteContent     string
	noteContentFile string
	noteKey         string
	noteMatch       string

	// NotesCmd groups the encrypted note commands.
	NotesCmd = &cobra.Command{
		Use:   "notes",
		Short: "Create, open, edit, and list encrypted notes",
		Long: `Each note is a document sealed under its own short key.

The key is printed when a note is created and again, changed, every time it
is edited. Opening a note leaves the key unchanged.

Examples:
  strongroom notes create --title "Shopping List" --content "eggs"
  strongroom notes list --match "*Shopping*"
  strongroom notes open Shopping_List_20240101_120000.docx --key ab12Cd
  strongroom notes edit Shopping_List_20240101_120000.docx --key ab12Cd --content-file list.txt`,
	}
)

func init() {
	notesCreateCmd.Flags().StringVar(&noteTitle, "title", "", "note title")
	notesCreateCmd.Flags().StringVar(&noteContent, "content", "", "note content")
	notesCreateCmd.Flags().StringVar(&noteContentFile, "content-file", "", "read the note content from a file")

	notesOpenCmd.Flags().StringVar(&noteKey, "key", "", "note key (prompted for when omitted)")

	notesEditCmd.Flags().StringVar(&noteKey, "key", "", "current note key (prompted for when omitted)")
	notesEditCmd.Flags().StringVar(&noteTitle, "title", "", "new title (unchanged when omitted)")
	notesEditCmd.Flags().StringVar(&noteContent, "content", "", "new content (unchanged when omitted)")
	notesEditCmd.Flags().StringVar(&noteContentFile, "content-file", "", "read the new content from a file")

	notesListCmd.Flags().StringVar(&noteMatch, "match", "", "only list file names matching this glob")

	NotesCmd.AddCommand(notesCreateCmd)
	NotesCmd.AddCommand(notesOpenCmd)
	NotesCmd.AddCommand(notesEditCmd)
	NotesCmd.AddCommand(notesListCmd)
}

// resetNotesCommandState resets the notes commands' global state for testing.
func resetNotesCommandState() {
	noteTitle = ""
	noteContent = ""
	noteContentFile = ""
	noteKey = ""
	noteMatch = ""
}

// contentFromFlags returns the note content from --content or --content-file,
// and whether either was given.
func contentFromFlags(cmd *cobra.Command) (string, bool, error) {
	if cmd.Flags().Changed("content-file") {
		data, err := os.ReadFile(noteContentFile)
		if err != nil {
			return "", false, fmt.Errorf("failed to read %s: %w", noteContentFile, err)
		}
		return string(data), true, nil
	}
	return noteContent, cmd.Flags().Changed("content"), nil
}

// readNoteKey returns --key, or reads the key the way the passphrase is read.
func readNoteKey(cmd *cobra.Command, s *spinner.Spinner) (string, error) {
	if cmd.Flags().Changed("key") {
		return strings.TrimSpace(noteKey), nil
	}
	key, err := readPassphrase(s, "Note key: ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(key)), nil
}

func formatNoteKey(filename, key string) string {
	return "    file: " + ui.Path.Sprint(filename) + "\n" +
		"    key:  " + ui.Secret.Sprint(key) + "\n" +
		ui.Arrow() + " Save this key. It is the only way to open the note."
}

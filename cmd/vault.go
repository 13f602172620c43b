package cmd

import (
	"fmt"
	"strings"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/ui"
	"github.com/PolarWolf314/strongroom/internal/vault"
)

var (
	entryWebsite  string
	entryName     string
	entryContact  string
	entryPassword string
	entryCategory string
	entryID       string
	entryRow      int
	showPasswords bool

	// VaultCmd groups the password vault commands.
	VaultCmd = &cobra.Command{
		Use:   "vault",
		Short: "Store and look up passwords",
		Long: `Vault entries hold a website, account details, and an encrypted password.
Entries without a category are filed under Other.

Examples:
  strongroom vault add --website example.com --contact me@example.com
  strongroom vault list --show-passwords
  strongroom vault update --id 6f1c... --password new-secret
  strongroom vault rekey`,
	}
)

func init() {
	bindEntryFlags(vaultAddCmd)
	bindEntryFlags(vaultUpdateCmd)
	vaultUpdateCmd.Flags().StringVar(&entryID, "id", "", "entry ID")
	vaultUpdateCmd.Flags().IntVar(&entryRow, "row", 0, "1-based row number, when --id is not given")
	vaultListCmd.Flags().BoolVar(&showPasswords, "show-passwords", false, "print decrypted passwords")

	VaultCmd.AddCommand(vaultAddCmd)
	VaultCmd.AddCommand(vaultListCmd)
	VaultCmd.AddCommand(vaultUpdateCmd)
	VaultCmd.AddCommand(vaultRekeyCmd)
}

func bindEntryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&entryWebsite, "website", "", "website or service")
	cmd.Flags().StringVar(&entryName, "name", "", "account name")
	cmd.Flags().StringVar(&entryContact, "contact", "", "email, username, or phone")
	cmd.Flags().StringVar(&entryPassword, "password", "", "password (prompted for when omitted)")
	cmd.Flags().StringVar(&entryCategory, "category", "", "category (default Other)")
}

// resetVaultCommandState resets the vault commands' global state for testing.
func resetVaultCommandState() {
	entryWebsite = ""
	entryName = ""
	entryContact = ""
	entryPassword = ""
	entryCategory = ""
	entryID = ""
	entryRow = 0
	showPasswords = false
}

// entryPasswordFromFlags returns --password, or reads it the way the
// passphrase is read.
func entryPasswordFromFlags(cmd *cobra.Command, s *spinner.Spinner) (string, error) {
	if cmd.Flags().Changed("password") {
		return entryPassword, nil
	}
	password, err := readPassphrase(s, "Password to store: ")
	if err != nil {
		return "", err
	}
	defer clear(password)
	return string(password), nil
}

func formatEntries(entries []vault.Entry, reveal bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d entr%s\n", ui.Tick(), len(entries), plural(len(entries), "y", "ies"))
	for _, e := range entries {
		password := "********"
		if reveal {
			password = e.Password
		}
		fmt.Fprintf(&b, "  %d. %s %s\n", e.Row, ui.Highlight.Sprint(e.Website), ui.Muted.Sprint(e.Category))
		if e.Name != "" {
			fmt.Fprintf(&b, "       name:     %s\n", e.Name)
		}
		if e.Contact != "" {
			fmt.Fprintf(&b, "       contact:  %s\n", e.Contact)
		}
		fmt.Fprintf(&b, "       password: %s\n", password)
		fmt.Fprintf(&b, "       id:       %s  added %s\n", e.ID, e.Date)
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

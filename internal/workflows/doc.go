// Package workflows provides the operations behind every Strongroom command
// and HTTP endpoint.
//
// Workflows coordinate the lower packages (configs, secrets, notes, vault,
// folders, table) to implement complete user-facing features. Each workflow
// loads the configuration, opens the tables it needs, performs one
// operation, and closes what it opened. They are independent of CLI
// concerns like flag parsing, spinners, and output formatting, and of HTTP
// concerns like sessions.
//
// # Design Philosophy
//
// The cmd/ and internal/server packages should be thin layers that:
//   - Parse flags, arguments, or request bodies
//   - Call the appropriate workflow function
//   - Format the result for display or as JSON
//
// # Available Workflows
//
//   - CreateMaster, VerifyMaster, IsMasterSet: the master passphrase
//   - CreateNote, ReadNote, SaveNote, ListNotes: encrypted notes
//   - EncryptPassword, DecryptPassword, RotateVaultKey: the vault master key
//   - AddEntry, ListEntries, UpdateEntry: password vault entries
//   - LockFolder, UnlockFolder, ListFolders: the folder locker
//   - Dashboard: counts for the landing page
//
// # Error Handling
//
// Workflows return sentinel errors from the internal/errors package, so
// callers can pick a message or status code without string matching:
//
//	note, err := workflows.ReadNote(ctx, filename, key)
//	if errors.Is(err, serrors.ErrInvalidKey) {
//	    // Tell the user the key is wrong; the note is unchanged.
//	}
//
// # Context Usage
//
// All workflow functions that touch storage accept a context.Context as
// their first parameter. It is checked before any work starts and passed
// down to the table backends.
package workflows

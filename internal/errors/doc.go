// Package errors provides typed error values for Strongroom.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Key errors: a note key did not open a note (ErrInvalidKey on read,
//     ErrIncorrectKey on edit). Both leave the note untouched.
//   - Crypto errors: authentication failures (ErrDecryptFailed)
//   - Master errors: setup and login (ErrMasterNotSet, ErrUnauthenticated)
//   - Lookup errors: missing notes, entries, rows, folders
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("opening %s: %w", file, errors.ErrInvalidKey)
//
// Handle errors in the CLI or HTTP layer:
//
//	note, err := workflows.ReadNote(ctx, opts)
//	if errors.Is(err, serrors.ErrInvalidKey) {
//	    // ask for the key again
//	}
package errors

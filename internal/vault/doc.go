// Package vault stores password entries with the password field encrypted.
//
// Entries live in the Vault table (PasswordVault.xlsx or the sqlite
// backend). Only the password column is ciphertext; it is sealed with the
// installation's vault master key through a TextCipher before the row is
// written and decrypted row by row when entries are listed. A row that does
// not decrypt is still listed, with the password replaced by a visible
// placeholder, so one damaged cell never hides the rest of the vault.
//
// Every entry carries a UUID assigned when it is saved. Updates address an
// entry by that ID; the positional row index is still accepted for scripts
// written against the spreadsheet layout.
package vault

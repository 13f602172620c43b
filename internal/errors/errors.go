package errors

import "errors"

// Key errors indicate a note key or derived key could not be used.
var (
	// ErrInvalidKey indicates a note could not be opened with the supplied key.
	// The note is unchanged on disk.
	ErrInvalidKey = errors.New("invalid key")

	// ErrIncorrectKey indicates the current key supplied for an edit did not
	// open the note. The note is unchanged and still sealed under its old key.
	ErrIncorrectKey = errors.New("current key is incorrect")

	// ErrInvalidKeyLength indicates a symmetric key has an unexpected length.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")
)

// Cryptographic errors indicate failures during encryption or decryption operations.
var (
	// ErrDecryptFailed indicates authentication of a ciphertext failed.
	ErrDecryptFailed = errors.New("failed to decrypt ciphertext")

	// ErrEncryptFailed indicates sealing a plaintext failed.
	ErrEncryptFailed = errors.New("failed to encrypt plaintext")
)

// Master credential errors.
var (
	// ErrMasterNotSet indicates no master passphrase has been created yet.
	ErrMasterNotSet = errors.New("master passphrase has not been created")

	// ErrMasterAlreadySet indicates a master passphrase already exists.
	ErrMasterAlreadySet = errors.New("master passphrase already created")

	// ErrPassphraseMismatch indicates the passphrase and its confirmation differ.
	ErrPassphraseMismatch = errors.New("passphrases do not match")

	// ErrInvalidCredential indicates the stored master credential is malformed.
	ErrInvalidCredential = errors.New("master credential record is invalid")

	// ErrUnauthenticated indicates the master passphrase was not verified.
	ErrUnauthenticated = errors.New("invalid master passphrase")
)

// Input errors.
var (
	// ErrMissingSecret indicates a required field was empty.
	ErrMissingSecret = errors.New("required field is empty")

	// ErrUnsupportedText indicates note text holds characters a document
	// cannot store, such as control characters or invalid UTF-8.
	ErrUnsupportedText = errors.New("text contains characters a note cannot store")

	// ErrTableLayout indicates an existing table's header row does not match
	// the columns this version reads and writes.
	ErrTableLayout = errors.New("table layout does not match")

	// ErrCellTooLong indicates a value is longer than a table cell can hold.
	ErrCellTooLong = errors.New("value is too long to store")
)

// Lookup errors indicate a note, entry, row, or folder could not be located.
var (
	// ErrNotFound indicates a note file does not exist.
	ErrNotFound = errors.New("note not found")

	// ErrEntryNotFound indicates a vault entry does not exist.
	ErrEntryNotFound = errors.New("vault entry not found")

	// ErrRowNotFound indicates a table row index is out of range.
	ErrRowNotFound = errors.New("row not found")

	// ErrFolderNotFound indicates a folder to lock or unlock does not exist.
	ErrFolderNotFound = errors.New("folder not found")
)

// Storage and platform errors.
var (
	// ErrInvalidDocument indicates a decrypted note is not a readable document.
	ErrInvalidDocument = errors.New("invalid note document")

	// ErrUnknownBackend indicates the configured table backend is not supported.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrFolderCommandFailed indicates the OS permission command failed.
	ErrFolderCommandFailed = errors.New("folder permission command failed")
)

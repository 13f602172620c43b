// Package notes manages encrypted notes and their per-note keys.
//
// Each note is a .docx document (see internal/document) sealed with a key
// derived from a short random note key. The note key is returned to the
// user when the note is created and again every time it is saved; it is
// never stored unless the installation opts in with
// notes.record_plaintext_key.
//
// Lifecycle:
//
//	Create -> sealed under K1
//	Open(K1) -> plaintext in memory, file re-sealed under K1
//	Save(K1) -> new document sealed under K2, K1 no longer opens it
//
// Plaintext never reaches the disk. Reads decrypt in memory and every write
// goes through a temporary file and rename, so a crash leaves either the
// old or the new ciphertext in place.
//
// A metadata table (NotesKeys) records, per file, the algorithm, the
// SHA-256 of the current key, and the time of the last key use.
package notes

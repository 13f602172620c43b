// Package utils provides shared helpers for Strongroom.
//
// # Filesystem Utilities
//
//   - WriteFileAtomic: temp file + rename, used for every sealed note,
//     key file, credential, and spreadsheet write
//   - FileExists: regular-file check
//
// # String Utilities
//
//   - SanitizeTitle: reduces a note title to a safe filename stem
//   - FormatPaths: formats file paths for human-readable output
//
// # System and Terminal Utilities
//
//   - GetUsername: current OS user, used by the folder locker
//   - ReadPassphrase / ReadLine: hidden prompt or piped stdin
package utils

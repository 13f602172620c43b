// Package logger provides leveled output for Strongroom commands and the
// local HTTP server.
//
// # Verbosity Levels
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details and errors
//
// Without flags only WarnfAlways output is shown; user-facing results are
// printed by the commands themselves.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Sealed %s", file)
//
// Commands create a logger in PersistentPreRun and pass it to the server.
// Never log passphrases, note keys, or decrypted content.
package logger

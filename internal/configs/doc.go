// Package configs manages Strongroom's settings and configuration.
//
// # Settings
//
// StrongroomSettings is initialised at startup and records where the
// installation lives:
//
//   - Data directory: $STRONGROOM_DATA_DIR, else $XDG_DATA_HOME/strongroom,
//     else ~/.local/share/strongroom
//   - Config file: <user config dir>/strongroom/config.toml
//
// The data directory holds the master credential (pass_hash.json), the vault
// master key (vault_master.key), sealed notes (notes/*.docx), and the tables.
//
// # Configuration
//
// config.toml is optional; missing keys keep their defaults:
//
//	[storage]
//	backend = "xlsx"            # or "sqlite"
//
//	[notes]
//	key_length = 6
//	record_plaintext_key = false
//
//	[master]
//	iterations = 200000
//
//	[server]
//	address = "127.0.0.1:5000"
//	login_rate_per_minute = 10
//
// Validate rejects non-loopback server addresses and iteration counts below
// 200,000.
package configs

// Package secrets provides Strongroom's cryptographic core.
//
// # Master Passphrase
//
// The master passphrase is never stored. MasterStore keeps a 16-byte random
// salt, the PBKDF2-HMAC-SHA256 iteration count (200,000 by default), and the
// 32-byte derived hash in pass_hash.json:
//
//	{"salt": "<base64>", "hash": "<hex>", "iterations": 200000}
//
// Verify re-derives the hash with the stored salt and iteration count and
// compares in constant time.
//
// # Note Keys
//
// A note key is a short random alphanumeric string shown to the user once.
// DeriveNoteKey hashes it with SHA-256 and uses the digest (carried in its
// base64url form) as the cipher key. The derivation is deterministic and
// unsalted; it relies on note keys being random and rotated on every save.
//
// # Encryption
//
// Seal and Open use NaCl secretbox (XSalsa20-Poly1305) with a random 24-byte
// nonce prepended to the ciphertext. Encryption is non-deterministic and a
// wrong key fails authentication with ErrDecryptFailed.
//
// # Vault Master Key
//
// Password fields are sealed under a single vault master key owned by a
// Keyring. The key file (base64url, mode 0600) is created on first use and
// reused until it is rotated. In memory the key lives in a memguard enclave.
// EncryptText and DecryptText map the empty string to itself.
//
// Rotate swaps in a fresh key. The caller rewrites every stored ciphertext
// through the ResealFunc it is given; the key file is replaced only if that
// succeeds.
//
// # Metrics
//
// Seal, Open, and Rotate update go-metrics counters (cipher.seal,
// cipher.open, cipher.open.failed, keyring.rotate), reported by Stats.
package secrets

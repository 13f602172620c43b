package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
)

const (
	// SaltSize is the length of the random salt stored with the master credential.
	SaltSize = 16

	// DefaultIterations is the PBKDF2 work factor for new master credentials.
	DefaultIterations = 200_000

	// DigestSize is the length of the derived master passphrase hash.
	DigestSize = 32

	// KeySize is the length of every symmetric key (XSalsa20-Poly1305).
	KeySize = 32

	// DefaultNoteKeyLength is the number of characters in a generated note key.
	DefaultNoteKeyLength = 6
)

const noteKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Key is a 32-byte symmetric key.
type Key [KeySize]byte

// Encoded returns the base64url form of the key, used wherever the key is
// written to disk.
func (k Key) Encoded() string {
	return base64.URLEncoding.EncodeToString(k[:])
}

// Wipe zeroes the key.
func (k *Key) Wipe() {
	clear(k[:])
}

// DecodeKey parses the base64url form produced by Encoded.
func DecodeKey(encoded string) (Key, error) {
	var key Key

	raw, err := base64.URLEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return key, fmt.Errorf("decoding key: %w", err)
	}
	defer clear(raw)

	if len(raw) != KeySize {
		return key, fmt.Errorf("%w: expected %d bytes, got %d bytes", serrors.ErrInvalidKeyLength, KeySize, len(raw))
	}

	copy(key[:], raw)
	return key, nil
}

// DeriveNoteKey turns a note key string into a cipher key: the SHA-256 digest
// of the string, carried through its base64url form. The derivation has no
// salt, so the same string always yields the same key.
func DeriveNoteKey(noteKey string) Key {
	digest := sha256.Sum256([]byte(noteKey))
	encoded := base64.URLEncoding.EncodeToString(digest[:KeySize])
	clear(digest[:])

	// The encoded form always decodes to KeySize bytes.
	key, _ := DecodeKey(encoded)
	return key
}

// DeriveMasterHash stretches a master passphrase with PBKDF2-HMAC-SHA256.
func DeriveMasterHash(passphrase, salt []byte, iterations int) []byte {
	return pbkdf2.Key(passphrase, salt, iterations, DigestSize, sha256.New)
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// GenerateNoteKey returns a random alphanumeric note key of the given length.
//
// The default of six characters gives about 35 bits of entropy. Keys are never
// reused and are rotated on every save, but a six-character key can be brute
// forced offline by anyone holding the note file.
func GenerateNoteKey(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("note key length must be at least 1, got %d", length)
	}

	max := big.NewInt(int64(len(noteKeyAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate note key: %w", err)
		}
		b[i] = noteKeyAlphabet[n.Int64()]
	}

	return string(b), nil
}

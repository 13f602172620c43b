package secrets

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
)

const (
	// NonceSize is the length of the random nonce prefixed to every ciphertext.
	NonceSize = 24

	// Algorithm names the construction in the note key metadata table.
	Algorithm = "XSalsa20-Poly1305"
)

// Seal encrypts and authenticates plaintext under key. The output is the
// random nonce followed by the secretbox ciphertext, so sealing the same
// plaintext twice gives different output.
func Seal(key Key, plaintext []byte) ([]byte, error) {
	var nonce [NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("%w: reading nonce: %v", serrors.ErrEncryptFailed, err)
	}

	sealCounter.Inc(1)
	return secretbox.Seal(nonce[:], plaintext, &nonce, (*[KeySize]byte)(&key)), nil
}

// Open authenticates and decrypts a ciphertext produced by Seal. A wrong key
// and a tampered ciphertext both return ErrDecryptFailed.
func Open(key Key, ciphertext []byte) ([]byte, error) {
	openCounter.Inc(1)

	if len(ciphertext) < NonceSize+secretbox.Overhead {
		openFailedCounter.Inc(1)
		return nil, fmt.Errorf("%w: ciphertext too short", serrors.ErrDecryptFailed)
	}

	var nonce [NonceSize]byte
	copy(nonce[:], ciphertext[:NonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[NonceSize:], &nonce, (*[KeySize]byte)(&key))
	if !ok {
		openFailedCounter.Inc(1)
		return nil, serrors.ErrDecryptFailed
	}
	if plaintext == nil {
		plaintext = []byte{}
	}

	return plaintext, nil
}

// SealWithNoteKey derives the cipher key from a note key string and seals plaintext.
func SealWithNoteKey(noteKey string, plaintext []byte) ([]byte, error) {
	key := DeriveNoteKey(noteKey)
	defer key.Wipe()
	return Seal(key, plaintext)
}

// OpenWithNoteKey derives the cipher key from a note key string and opens ciphertext.
func OpenWithNoteKey(noteKey string, ciphertext []byte) ([]byte, error) {
	key := DeriveNoteKey(noteKey)
	defer key.Wipe()
	return Open(key, ciphertext)
}

package secrets

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/awnumar/memguard"

	"github.com/PolarWolf314/strongroom/internal/utils"
)

// ResealFunc turns a ciphertext under the current vault key into one under
// the replacement key.
type ResealFunc func(ciphertext string) (string, error)

// Rotate replaces the vault master key.
//
// fn must rewrite every stored ciphertext using reseal before it returns.
// The new key is written next to the key file as Path()+".next" first, and
// moved over the key file only after fn succeeds. If fn fails the current
// key stays in place and the pending file is removed. Encryption through
// this keyring waits until rotation finishes.
func (k *Keyring) Rotate(fn func(reseal ResealFunc) error) error {
	k.rotating.Lock()
	defer k.rotating.Unlock()

	current, err := k.load()
	if err != nil {
		return err
	}

	var next Key
	if _, err := rand.Read(next[:]); err != nil {
		return fmt.Errorf("failed to generate vault key: %w", err)
	}
	encoded := []byte(next.Encoded())
	defer clear(encoded)

	pending := k.path + ".next"
	if err := utils.WriteFileAtomic(pending, encoded, 0600); err != nil {
		return fmt.Errorf("failed to save new vault key: %w", err)
	}

	// NewEnclave wipes next.
	replacement := memguard.NewEnclave(next[:])

	withCurrent := func(fn func(Key) error) error { return unsealed(current, fn) }
	withReplacement := func(fn func(Key) error) error { return unsealed(replacement, fn) }

	reseal := func(ciphertext string) (string, error) {
		plaintext, err := decryptText(withCurrent, ciphertext)
		if err != nil {
			return "", err
		}
		return encryptText(withReplacement, plaintext)
	}

	if err := fn(reseal); err != nil {
		_ = os.Remove(pending)
		return err
	}

	if err := os.Rename(pending, k.path); err != nil {
		return fmt.Errorf("failed to replace vault key, new key left at %s: %w", pending, err)
	}

	k.mu.Lock()
	k.enclave = replacement
	k.mu.Unlock()

	rotateCounter.Inc(1)
	return nil
}

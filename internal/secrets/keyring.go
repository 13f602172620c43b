package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/awnumar/memguard"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/utils"
)

// Keyring holds the vault master key that encrypts password fields.
//
// The key file is read on first use. If it does not exist a new random key is
// generated and written before it is used, so an installation only ever has
// one vault master key. Once loaded the key stays sealed in a memguard
// enclave for the life of the process and is only unsealed for the duration
// of a single encrypt or decrypt.
type Keyring struct {
	path string

	// rotating is held for writing while the key is replaced.
	rotating sync.RWMutex

	mu      sync.Mutex
	enclave *memguard.Enclave
}

var (
	keyringsMu sync.Mutex
	keyrings   = make(map[string]*Keyring)
)

// KeyringAt returns the process-wide keyring for the key file at path.
// Every caller asking for the same path shares one keyring.
func KeyringAt(path string) *Keyring {
	path = filepath.Clean(path)

	keyringsMu.Lock()
	defer keyringsMu.Unlock()

	if k, ok := keyrings[path]; ok {
		return k
	}
	k := &Keyring{path: path}
	keyrings[path] = k
	return k
}

// Path returns the key file location.
func (k *Keyring) Path() string {
	return k.path
}

// Loaded reports whether the key has been read or created by this process.
func (k *Keyring) Loaded() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.enclave != nil
}

func (k *Keyring) load() (*memguard.Enclave, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.enclave != nil {
		return k.enclave, nil
	}

	data, err := os.ReadFile(k.path)
	switch {
	case os.IsNotExist(err):
		data, err = k.create()
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read vault key: %w", err)
	}

	key, err := DecodeKey(string(data))
	clear(data)
	if err != nil {
		return nil, fmt.Errorf("vault key %s: %w", k.path, err)
	}

	// NewEnclave wipes the source buffer.
	k.enclave = memguard.NewEnclave(key[:])
	return k.enclave, nil
}

func (k *Keyring) create() ([]byte, error) {
	var key Key
	if _, err := rand.Read(key[:]); err != nil {
		return nil, fmt.Errorf("failed to generate vault key: %w", err)
	}
	defer key.Wipe()

	encoded := []byte(key.Encoded())

	if err := os.MkdirAll(filepath.Dir(k.path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(k.path), err)
	}
	if err := utils.WriteFileAtomic(k.path, encoded, 0600); err != nil {
		return nil, fmt.Errorf("failed to save vault key: %w", err)
	}

	return encoded, nil
}

// withKey unseals the key for the duration of fn.
func (k *Keyring) withKey(fn func(key Key) error) error {
	k.rotating.RLock()
	defer k.rotating.RUnlock()

	enclave, err := k.load()
	if err != nil {
		return err
	}
	return unsealed(enclave, fn)
}

func unsealed(enclave *memguard.Enclave, fn func(key Key) error) error {
	buf, err := enclave.Open()
	if err != nil {
		return fmt.Errorf("failed to unseal vault key: %w", err)
	}
	defer buf.Destroy()

	if buf.Size() != KeySize {
		return serrors.ErrInvalidKeyLength
	}

	var key Key
	copy(key[:], buf.Bytes())
	defer key.Wipe()

	return fn(key)
}

// EncryptText seals a short text value under the vault master key and returns
// it as base64url text. The empty string encrypts to the empty string without
// touching the key.
func (k *Keyring) EncryptText(plaintext string) (string, error) {
	return encryptText(k.withKey, plaintext)
}

// DecryptText reverses EncryptText. The empty string decrypts to the empty string.
func (k *Keyring) DecryptText(ciphertext string) (string, error) {
	return decryptText(k.withKey, ciphertext)
}

func encryptText(with func(func(Key) error) error, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	var sealed []byte
	err := with(func(key Key) error {
		var err error
		sealed, err = Seal(key, []byte(plaintext))
		return err
	})
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(sealed), nil
}

func decryptText(with func(func(Key) error) error, ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	sealed, err := base64.URLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", serrors.ErrDecryptFailed, err)
	}

	var plaintext []byte
	err = with(func(key Key) error {
		var err error
		plaintext, err = Open(key, sealed)
		return err
	})
	if err != nil {
		return "", err
	}
	defer clear(plaintext)

	return string(plaintext), nil
}

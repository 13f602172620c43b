package secrets

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/utils"
)

// MasterCredential is the persisted form of the master passphrase hash.
// The passphrase itself is never stored.
type MasterCredential struct {
	Salt       string `json:"salt"`       // base64 (standard encoding)
	Hash       string `json:"hash"`       // hex
	Iterations int    `json:"iterations"` // PBKDF2 work factor
}

// MasterStore persists and verifies the master credential at a fixed path.
type MasterStore struct {
	path       string
	iterations int
}

// NewMasterStore returns a store for the credential file at path. New
// credentials use the given iteration count; existing ones keep their own.
func NewMasterStore(path string, iterations int) *MasterStore {
	if iterations < 1 {
		iterations = DefaultIterations
	}
	return &MasterStore{path: path, iterations: iterations}
}

// IsSet reports whether a master credential has been created.
func (s *MasterStore) IsSet() bool {
	return utils.FileExists(s.path)
}

// Create derives and persists the credential for passphrase. It fails with
// ErrMasterAlreadySet if one exists; there is no rotation path.
func (s *MasterStore) Create(passphrase []byte) error {
	if len(passphrase) == 0 {
		return serrors.ErrMissingSecret
	}
	if s.IsSet() {
		return serrors.ErrMasterAlreadySet
	}

	salt, err := NewSalt()
	if err != nil {
		return err
	}

	digest := DeriveMasterHash(passphrase, salt, s.iterations)
	record := MasterCredential{
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Hash:       hex.EncodeToString(digest),
		Iterations: s.iterations,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode master credential: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(s.path), err)
	}
	if err := utils.WriteFileAtomic(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save master credential: %w", err)
	}

	return nil
}

// Verify re-derives the hash of passphrase with the stored salt and iteration
// count and compares it in constant time.
func (s *MasterStore) Verify(passphrase []byte) (bool, error) {
	record, err := s.load()
	if err != nil {
		return false, err
	}

	salt, err := base64.StdEncoding.DecodeString(record.Salt)
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", serrors.ErrInvalidCredential, err)
	}
	expected, err := hex.DecodeString(record.Hash)
	if err != nil || len(expected) != DigestSize {
		return false, fmt.Errorf("%w: hash", serrors.ErrInvalidCredential)
	}

	candidate := DeriveMasterHash(passphrase, salt, record.Iterations)
	return subtle.ConstantTimeCompare(candidate, expected) == 1, nil
}

func (s *MasterStore) load() (*MasterCredential, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, serrors.ErrMasterNotSet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read master credential: %w", err)
	}

	var record MasterCredential
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", serrors.ErrInvalidCredential, err)
	}

	// Records written before the iteration count was stored used the default.
	if record.Iterations == 0 {
		record.Iterations = DefaultIterations
	}
	if record.Iterations < 0 {
		return nil, fmt.Errorf("%w: iterations %d", serrors.ErrInvalidCredential, record.Iterations)
	}

	return &record, nil
}

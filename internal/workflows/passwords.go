package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/strongroom/internal/configs"
	"github.com/PolarWolf314/strongroom/internal/secrets"
	"github.com/PolarWolf314/strongroom/internal/vault"
)

// EncryptPassword encrypts plaintext with the vault master key, creating
// the key on first use. The empty string encrypts to the empty string.
func EncryptPassword(plaintext string) (string, error) {
	return secrets.KeyringAt(configs.StrongroomSettings.VaultKeyPath()).EncryptText(plaintext)
}

// DecryptPassword reverses EncryptPassword.
//
// Returns ErrDecryptFailed if ciphertext was not produced with this
// installation's vault master key or has been modified.
func DecryptPassword(ciphertext string) (string, error) {
	return secrets.KeyringAt(configs.StrongroomSettings.VaultKeyPath()).DecryptText(ciphertext)
}

// RotateVaultKey replaces the vault master key and re-encrypts every stored
// password under it. Passwords that no longer decrypt are left as they were
// and counted as skipped. If rewriting the vault fails the old key stays in
// use.
func RotateVaultKey(ctx context.Context) (*vault.ResealResult, error) {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return nil, err
	}

	sheet, err := env.openSheet(vault.Schema)
	if err != nil {
		return nil, err
	}
	defer sheet.Close()

	keyring := env.keyring()
	store := vault.NewStore(sheet, keyring)

	var result *vault.ResealResult
	err = keyring.Rotate(func(reseal secrets.ResealFunc) error {
		var err error
		result, err = store.Reseal(ctx, reseal)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("rotating vault key: %w", err)
	}
	return result, nil
}

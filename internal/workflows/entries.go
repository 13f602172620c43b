package workflows

import (
	"context"

	"github.com/PolarWolf314/strongroom/internal/vault"
)

// UpdateEntryOptions selects the entry to update and its new fields.
type UpdateEntryOptions struct {
	// ID selects the entry by its ID. Takes precedence over Row.
	ID string

	// Row selects the entry by 1-based position when ID is empty.
	Row int

	Entry vault.Entry
}

func withVault[T any](ctx context.Context, fn func(*vault.Store) (T, error)) (T, error) {
	var zero T

	env, err := loadEnvironment(ctx)
	if err != nil {
		return zero, err
	}

	sheet, err := env.openSheet(vault.Schema)
	if err != nil {
		return zero, err
	}
	defer sheet.Close()

	return fn(vault.NewStore(sheet, env.keyring()))
}

// AddEntry encrypts the entry's password and stores it.
//
// Returns ErrMissingSecret if the website or password is empty.
func AddEntry(ctx context.Context, entry vault.Entry) (*vault.Entry, error) {
	return withVault(ctx, func(s *vault.Store) (*vault.Entry, error) {
		return s.Save(ctx, entry)
	})
}

// ListEntries returns every vault entry with its password decrypted.
// Passwords that do not decrypt show vault.DecryptErrorPlaceholder.
func ListEntries(ctx context.Context) ([]vault.Entry, error) {
	return withVault(ctx, func(s *vault.Store) ([]vault.Entry, error) {
		return s.List(ctx)
	})
}

// UpdateEntry replaces an entry's fields, re-encrypting its password.
//
// Returns ErrEntryNotFound if no entry matches.
// Returns ErrMissingSecret if the website or password is empty.
func UpdateEntry(ctx context.Context, opts UpdateEntryOptions) (*vault.Entry, error) {
	return withVault(ctx, func(s *vault.Store) (*vault.Entry, error) {
		if opts.ID != "" {
			return s.Update(ctx, opts.ID, opts.Entry)
		}
		return s.UpdateRow(ctx, opts.Row, opts.Entry)
	})
}


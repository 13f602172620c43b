package workflows

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/PolarWolf314/strongroom/internal/configs"
	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/secrets"
)

// CreateMasterOptions configures the create-master workflow.
type CreateMasterOptions struct {
	// Passphrase is the new master passphrase.
	Passphrase []byte

	// Confirmation must equal Passphrase.
	Confirmation []byte
}

// CreateMaster stores the salted, iterated hash of a new master passphrase.
//
// Returns ErrMissingSecret if the passphrase is empty.
// Returns ErrPassphraseMismatch if the confirmation differs.
// Returns ErrMasterAlreadySet if a master passphrase already exists.
func CreateMaster(ctx context.Context, opts CreateMasterOptions) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}

	if len(opts.Passphrase) == 0 {
		return fmt.Errorf("%w: passphrase", serrors.ErrMissingSecret)
	}
	if subtle.ConstantTimeCompare(opts.Passphrase, opts.Confirmation) != 1 {
		return serrors.ErrPassphraseMismatch
	}

	if err := env.settings.EnsureDataDirs(); err != nil {
		return err
	}
	return env.masterStore().Create(opts.Passphrase)
}

// VerifyMaster reports whether passphrase is the master passphrase.
//
// Returns ErrMasterNotSet if no master passphrase has been created.
func VerifyMaster(ctx context.Context, passphrase []byte) (bool, error) {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return false, err
	}
	return env.masterStore().Verify(passphrase)
}

// IsMasterSet reports whether a master passphrase has been created.
func IsMasterSet() bool {
	return secrets.NewMasterStore(configs.StrongroomSettings.MasterCredentialPath(), 0).IsSet()
}

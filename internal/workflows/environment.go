package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/strongroom/internal/configs"
	"github.com/PolarWolf314/strongroom/internal/folders"
	"github.com/PolarWolf314/strongroom/internal/secrets"
	"github.com/PolarWolf314/strongroom/internal/table"
)

// folderPermissions is replaced in tests.
var folderPermissions = folders.DefaultPermissions

// environment is the configuration a workflow runs against.
type environment struct {
	settings *configs.Settings
	config   *configs.Config
}

func loadEnvironment(ctx context.Context) (*environment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	config, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}

	return &environment{
		settings: configs.StrongroomSettings,
		config:   config,
	}, nil
}

func (e *environment) openSheet(schema table.Schema) (table.Sheet, error) {
	if err := e.settings.EnsureDataDirs(); err != nil {
		return nil, err
	}

	sheet, err := table.Open(e.config.Storage.Backend, e.settings.TablesDir(), schema)
	if err != nil {
		return nil, fmt.Errorf("opening %s table: %w", schema.Name, err)
	}
	return sheet, nil
}

func (e *environment) keyring() *secrets.Keyring {
	return secrets.KeyringAt(e.settings.VaultKeyPath())
}

func (e *environment) masterStore() *secrets.MasterStore {
	return secrets.NewMasterStore(e.settings.MasterCredentialPath(), e.config.Master.Iterations)
}

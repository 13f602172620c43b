package workflows

import (
	"context"

	"github.com/PolarWolf314/strongroom/internal/folders"
	"github.com/PolarWolf314/strongroom/internal/notes"
	"github.com/PolarWolf314/strongroom/internal/vault"
)

// DashboardResult holds the counts shown after login.
type DashboardResult struct {
	// LockedFolders counts folders whose last action was a lock.
	LockedFolders int `json:"locked_folders"`

	// VaultEntries counts password vault entries.
	VaultEntries int `json:"vault_entries"`

	// Notes counts encrypted notes.
	Notes int `json:"notes"`
}

// Dashboard counts locked folders, vault entries, and notes.
func Dashboard(ctx context.Context) (*DashboardResult, error) {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return nil, err
	}

	result := &DashboardResult{}

	folderSheet, err := env.openSheet(folders.Schema)
	if err != nil {
		return nil, err
	}
	defer folderSheet.Close()
	if result.LockedFolders, err = folders.NewLocker(folderSheet, nil).CountLocked(ctx); err != nil {
		return nil, err
	}

	vaultSheet, err := env.openSheet(vault.Schema)
	if err != nil {
		return nil, err
	}
	defer vaultSheet.Close()
	if result.VaultEntries, err = vault.NewStore(vaultSheet, env.keyring()).Count(ctx); err != nil {
		return nil, err
	}

	if result.Notes, err = notes.NewManager(env.settings.NotesDir(), nil, notes.Options{}).Count(); err != nil {
		return nil, err
	}

	return result, nil
}

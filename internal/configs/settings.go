package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const appName = "strongroom"

// Settings holds the on-disk locations of a Strongroom installation.
type Settings struct {
	DataDir    string
	ConfigPath string
}

var StrongroomSettings *Settings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("STRONGROOM_DATA_DIR")
	if dataDir == "" {
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData == "" {
			xdgData = filepath.Join(homeDir, ".local", "share")
		}
		dataDir = filepath.Join(xdgData, appName)
	}

	StrongroomSettings = NewSettings(dataDir, filepath.Join(configDir, appName))
}

// NewSettings returns settings rooted at dataDir, reading config.toml from configDir.
func NewSettings(dataDir, configDir string) *Settings {
	return &Settings{
		DataDir:    dataDir,
		ConfigPath: filepath.Join(configDir, "config.toml"),
	}
}

// MasterCredentialPath is the salted hash of the master passphrase.
func (s *Settings) MasterCredentialPath() string {
	return filepath.Join(s.DataDir, "pass_hash.json")
}

// VaultKeyPath is the vault master key used for password fields.
func (s *Settings) VaultKeyPath() string {
	return filepath.Join(s.DataDir, "vault_master.key")
}

// NotesDir holds the sealed note documents.
func (s *Settings) NotesDir() string {
	return filepath.Join(s.DataDir, "notes")
}

// TablesDir holds the spreadsheet or sqlite tables.
func (s *Settings) TablesDir() string {
	return s.DataDir
}

// EnsureDataDirs creates the data and notes directories with owner-only permissions.
func (s *Settings) EnsureDataDirs() error {
	for _, dir := range []string{s.DataDir, s.NotesDir()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

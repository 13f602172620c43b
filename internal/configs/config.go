package configs

import (
	"fmt"
	"net"
	"os"

	"github.com/PolarWolf314/strongroom/internal/secrets"
)

const (
	BackendXLSX   = "xlsx"
	BackendSQLite = "sqlite"
)

type Config struct {
	Storage StorageConfig `toml:"storage" json:"storage"`
	Notes   NotesConfig   `toml:"notes" json:"notes"`
	Master  MasterConfig  `toml:"master" json:"master"`
	Server  ServerConfig  `toml:"server" json:"server"`
}

type StorageConfig struct {
	Backend string `toml:"backend" json:"backend"`
}

type NotesConfig struct {
	KeyLength int `toml:"key_length" json:"key_length"`

	// RecordPlaintextKey also writes each note's key into the metadata table.
	// Anyone who can read that table can then open every note.
	RecordPlaintextKey bool `toml:"record_plaintext_key" json:"record_plaintext_key"`
}

type MasterConfig struct {
	Iterations int `toml:"iterations" json:"iterations"`
}

type ServerConfig struct {
	Address            string `toml:"address" json:"address"`
	LoginRatePerMinute int    `toml:"login_rate_per_minute" json:"login_rate_per_minute"`
}

// DefaultConfig returns the configuration used when no config.toml exists.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Backend: BackendXLSX},
		Notes: NotesConfig{
			KeyLength:          secrets.DefaultNoteKeyLength,
			RecordPlaintextKey: false,
		},
		Master: MasterConfig{Iterations: secrets.DefaultIterations},
		Server: ServerConfig{
			Address:            "127.0.0.1:5000",
			LoginRatePerMinute: 10,
		},
	}
}

// LoadConfig reads config.toml over the defaults. A missing file is not an error.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(StrongroomSettings.ConfigPath)
}

// LoadConfigFrom reads the config file at path over the defaults.
func LoadConfigFrom(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig writes the config to config.toml.
func SaveConfig(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := SaveTOML(StrongroomSettings.ConfigPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate checks the values that would otherwise fail late or weaken the vault.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendXLSX, BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendXLSX, BackendSQLite, c.Storage.Backend)
	}

	if c.Notes.KeyLength < 1 {
		return fmt.Errorf("notes.key_length must be at least 1, got %d", c.Notes.KeyLength)
	}

	if c.Master.Iterations < secrets.DefaultIterations {
		return fmt.Errorf("master.iterations must be at least %d, got %d", secrets.DefaultIterations, c.Master.Iterations)
	}

	if c.Server.LoginRatePerMinute < 1 {
		return fmt.Errorf("server.login_rate_per_minute must be at least 1, got %d", c.Server.LoginRatePerMinute)
	}

	// The server has no transport security, so it only listens on loopback.
	host, _, err := net.SplitHostPort(c.Server.Address)
	if err != nil {
		return fmt.Errorf("server.address %q: %w", c.Server.Address, err)
	}
	if host != "localhost" {
		ip := net.ParseIP(host)
		if ip == nil || !ip.IsLoopback() {
			return fmt.Errorf("server.address must be a loopback address, got %q", c.Server.Address)
		}
	}

	return nil
}

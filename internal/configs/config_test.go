package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if err := config.Validate(); err != nil {
		t.Fatalf("Default config must be valid: %v", err)
	}
	if config.Storage.Backend != BackendXLSX {
		t.Errorf("Expected default backend %q, got %q", BackendXLSX, config.Storage.Backend)
	}
	if config.Notes.KeyLength != 6 {
		t.Errorf("Expected default key length 6, got %d", config.Notes.KeyLength)
	}
	if config.Notes.RecordPlaintextKey {
		t.Error("Plaintext keys must not be recorded by default")
	}
	if config.Master.Iterations != 200_000 {
		t.Errorf("Expected 200000 iterations, got %d", config.Master.Iterations)
	}
	if config.Server.Address != "127.0.0.1:5000" {
		t.Errorf("Unexpected default address %q", config.Server.Address)
	}
}

func TestLoadConfigFrom_Missing(t *testing.T) {
	config, err := LoadConfigFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfigFrom failed: %v", err)
	}
	if *config != *DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", config)
	}
}

func TestLoadConfigFrom_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
backend = "sqlite"

[notes]
record_plaintext_key = true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom failed: %v", err)
	}
	if config.Storage.Backend != BackendSQLite {
		t.Errorf("Expected sqlite backend, got %q", config.Storage.Backend)
	}
	if !config.Notes.RecordPlaintextKey {
		t.Error("Expected record_plaintext_key to be true")
	}
	if config.Notes.KeyLength != 6 || config.Master.Iterations != 200_000 {
		t.Errorf("Unset keys must keep their defaults, got %+v", config)
	}
}

func TestLoadConfigFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"BadTOML", "[storage\nbackend=", "failed to load config"},
		{"UnknownBackend", "[storage]\nbackend = \"csv\"", "storage.backend"},
		{"ZeroKeyLength", "[notes]\nkey_length = 0", "notes.key_length"},
		{"WeakIterations", "[master]\niterations = 1000", "master.iterations"},
		{"ZeroRate", "[server]\nlogin_rate_per_minute = 0", "login_rate_per_minute"},
		{"PublicAddress", "[server]\naddress = \"0.0.0.0:5000\"", "loopback"},
		{"HostnameAddress", "[server]\naddress = \"example.com:5000\"", "loopback"},
		{"NoPort", "[server]\naddress = \"127.0.0.1\"", "server.address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}

			_, err := LoadConfigFrom(path)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_LoopbackAddresses(t *testing.T) {
	for _, addr := range []string{"127.0.0.1:5000", "localhost:8080", "[::1]:5000", "127.0.0.2:1"} {
		config := DefaultConfig()
		config.Server.Address = addr
		if err := config.Validate(); err != nil {
			t.Errorf("Validate(%q) failed: %v", addr, err)
		}
	}
}

func TestSaveConfig(t *testing.T) {
	original := StrongroomSettings
	t.Cleanup(func() { StrongroomSettings = original })

	tempDir := t.TempDir()
	StrongroomSettings = NewSettings(filepath.Join(tempDir, "data"), filepath.Join(tempDir, "config"))

	config := DefaultConfig()
	config.Notes.KeyLength = 10
	if err := SaveConfig(config); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Notes.KeyLength != 10 {
		t.Errorf("Expected key length 10, got %d", loaded.Notes.KeyLength)
	}

	config.Storage.Backend = "csv"
	if err := SaveConfig(config); err == nil {
		t.Error("SaveConfig must reject an invalid config")
	}
}

func TestSettingsPaths(t *testing.T) {
	s := NewSettings("/data/strongroom", "/config/strongroom")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ConfigPath", s.ConfigPath, filepath.Join("/config/strongroom", "config.toml")},
		{"MasterCredentialPath", s.MasterCredentialPath(), filepath.Join("/data/strongroom", "pass_hash.json")},
		{"VaultKeyPath", s.VaultKeyPath(), filepath.Join("/data/strongroom", "vault_master.key")},
		{"NotesDir", s.NotesDir(), filepath.Join("/data/strongroom", "notes")},
		{"TablesDir", s.TablesDir(), "/data/strongroom"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestEnsureDataDirs(t *testing.T) {
	s := NewSettings(filepath.Join(t.TempDir(), "data"), t.TempDir())
	if err := s.EnsureDataDirs(); err != nil {
		t.Fatalf("EnsureDataDirs failed: %v", err)
	}

	info, err := os.Stat(s.NotesDir())
	if err != nil {
		t.Fatalf("Notes dir missing: %v", err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("Expected 0700 permissions, got %o", info.Mode().Perm())
	}
}

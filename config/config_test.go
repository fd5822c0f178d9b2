package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/altoai/alto-go"
)

// TestLoadFile_LayersOverDefaults verifies file values override defaults
// while unset fields keep them.
func TestLoadFile_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_key: file-key\ndefault_model: alto-turbo\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.APIKey != "file-key" || loaded.DefaultModel != "alto-turbo" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.BaseURL != alto.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default kept", loaded.BaseURL)
	}
}

// TestLoadFile_Malformed verifies a broken file is reported.
func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

// TestWithEnvOverrides verifies environment variables win over file values.
func TestWithEnvOverrides(t *testing.T) {
	t.Setenv(alto.EnvAPIKey, "env-key")
	t.Setenv(alto.EnvWorkspace, "env-ws")

	loaded := Config{APIKey: "file-key", Workspace: "file-ws"}.withEnvOverrides()
	if loaded.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env override", loaded.APIKey)
	}
	if loaded.Workspace != "env-ws" {
		t.Errorf("Workspace = %q, want env override", loaded.Workspace)
	}
}

// Package config loads client defaults from the user's configuration file
// at ~/.alto/config.yaml. Environment variables always win over file
// values, so the file serves as the fallback layer for interactive use and
// the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/altoai/alto-go"
)

const configFileName = "config.yaml"

// Config is the on-disk configuration shape.
type Config struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	WebsocketURL string `yaml:"websocket_url"`
	Workspace    string `yaml:"workspace"`
	// DefaultModel is used by the CLI when no model flag is given.
	DefaultModel string `yaml:"default_model"`
	// PollIntervalSeconds overrides the task polling cadence.
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
}

// Bootstrap returns the defaults applied beneath the config file.
func Bootstrap() Config {
	return Config{
		BaseURL:      alto.DefaultBaseURL,
		WebsocketURL: alto.DefaultWebsocketURL,
	}
}

// Path returns the location of the user's config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".alto", configFileName), nil
}

// Load reads the user's config file, layering it over Bootstrap defaults
// and then applying environment overrides. A missing file is not an error;
// the defaults and environment stand alone.
func Load() (Config, error) {
	loaded := Bootstrap()

	path, err := Path()
	if err != nil {
		return loaded, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return loaded.withEnvOverrides(), nil
		}
		return loaded, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(content, &loaded); err != nil {
		return loaded, fmt.Errorf("failed to unmarshal config file: %w", err)
	}
	return loaded.withEnvOverrides(), nil
}

// LoadFile reads a specific config file, without environment overrides.
// Used by tests and by the CLI's --config flag.
func LoadFile(path string) (Config, error) {
	loaded := Bootstrap()
	content, err := os.ReadFile(path)
	if err != nil {
		return loaded, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(content, &loaded); err != nil {
		return loaded, fmt.Errorf("failed to unmarshal config file: %w", err)
	}
	return loaded, nil
}

func (loaded Config) withEnvOverrides() Config {
	if value := os.Getenv(alto.EnvAPIKey); value != "" {
		loaded.APIKey = value
	}
	if value := os.Getenv(alto.EnvBaseURL); value != "" {
		loaded.BaseURL = value
	}
	if value := os.Getenv(alto.EnvWebsocketURL); value != "" {
		loaded.WebsocketURL = value
	}
	if value := os.Getenv(alto.EnvWorkspace); value != "" {
		loaded.Workspace = value
	}
	return loaded
}

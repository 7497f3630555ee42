package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LoadConfig loads the configuration from config.json. A missing file
// yields the defaults; a corrupted one is an error. Keys absent from the
// file are defaulted.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (*Config, error) {
	jsonBytes, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return DefaultConfig(), nil
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := &Config{}
	if err := json.Unmarshal(jsonBytes, config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	ApplyMissingDefaults(config, detectPresentKeys(jsonBytes))
	return config, nil
}

// SaveConfig saves the configuration to config.json atomically
func SaveConfig(config *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	return AtomicWriteJSON(path, config)
}

// CreateConfigIfMissing writes a default config.json unless one exists.
func CreateConfigIfMissing() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if !errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return AtomicWriteJSON(path, DefaultConfig())
}

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

var appName string

// Init sets the application data directory name. Must be called before
// any storage operations.
func Init(dataDirName string) {
	appName = dataDirName
}

const (
	configFile    = "config.json"
	keymapFile    = "keymap.toml"
	screenshotDir = "screenshots"
)

// GetBaseDir returns the base directory for application data.
// The directory name is set by Init(). Example paths:
// - macOS: ~/Library/Application Support/<appName>
// - Linux: $XDG_DATA_HOME/<appName> or ~/.local/share/<appName>
// - Windows: %APPDATA%/<appName>
func GetBaseDir() (string, error) {
	if appName == "" {
		return "", fmt.Errorf("storage not initialized")
	}
	root, err := dataRoot(runtime.GOOS, os.Getenv, os.UserHomeDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, appName), nil
}

// dataRoot resolves the per-user data directory for goos.
func dataRoot(goos string, getenv func(string) string, home func() (string, error)) (string, error) {
	switch goos {
	case "windows":
		if appData := getenv("APPDATA"); appData != "" {
			return appData, nil
		}
		return "", fmt.Errorf("APPDATA environment variable not set")
	case "darwin":
		h, err := home()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(h, "Library", "Application Support"), nil
	}

	if dataHome := getenv("XDG_DATA_HOME"); dataHome != "" {
		return dataHome, nil
	}
	h, err := home()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(h, ".local", "share"), nil
}

// EnsureDirectories creates all necessary directories for the application
func EnsureDirectories() error {
	baseDir, err := GetBaseDir()
	if err != nil {
		return err
	}

	for _, dir := range []string{baseDir, filepath.Join(baseDir, screenshotDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func inBaseDir(elem ...string) (string, error) {
	baseDir, err := GetBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{baseDir}, elem...)...), nil
}

// GetConfigPath returns the full path to config.json
func GetConfigPath() (string, error) {
	return inBaseDir(configFile)
}

// GetKeymapPath returns the full path to keymap.toml
func GetKeymapPath() (string, error) {
	return inBaseDir(keymapFile)
}

// GetScreenshotDir returns the full path to the screenshots directory
func GetScreenshotDir() (string, error) {
	return inBaseDir(screenshotDir)
}

// GetROMScreenshotDir returns the screenshot directory for one ROM. The
// name is reduced to its base so it cannot escape the screenshots directory.
func GetROMScreenshotDir(romName string) (string, error) {
	name := filepath.Base(romName)
	if name == "." || name == string(filepath.Separator) {
		name = "unknown"
	}
	return inBaseDir(screenshotDir, name)
}

// AtomicWriteJSON writes data to a JSON file atomically.
// It writes to a temporary file first, then renames to the target path.
func AtomicWriteJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// ReadJSON reads and unmarshals a JSON file
func ReadJSON(path string, data any) error {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(jsonData, data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

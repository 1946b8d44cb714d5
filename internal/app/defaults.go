package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - SCREENKEEP_CONFIG_PATH: config file location (default: ~/.config/screenkeep.toml)
//   - SCREENKEEP_HOME: base directory for screenkeep data (default: ~/.local/share/screenkeep)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking SCREENKEEP_CONFIG_PATH
// env var first, then falling back to the default ~/.config/screenkeep.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("SCREENKEEP_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "screenkeep.toml"), nil
}

// getBaseDir returns the base directory for screenkeep data, checking
// SCREENKEEP_HOME env var first, then falling back to the XDG default
// ~/.local/share/screenkeep.
func getBaseDir() (string, error) {
	if path := os.Getenv("SCREENKEEP_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "screenkeep"), nil
}

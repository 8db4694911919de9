package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	PriorityTerms       []string `json:"priorityTerms"`
	SmartClassifyLimit  int      `json:"smartClassifyLimit"`
	FetchTimeoutSeconds int      `json:"fetchTimeoutSeconds"`
	ProxyURL            string   `json:"proxyUrl"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PriorityTerms:       []string{"Dev", "News", "Shopping", "Social", "Video"},
		SmartClassifyLimit:  300,
		FetchTimeoutSeconds: 10,
	}
}

// LoadConfig reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Create the config file with defaults
			if saveErr := SaveConfig(path, &config); saveErr != nil {
				// Non-fatal: return defaults even if save fails
				return &config, nil
			}
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.PriorityTerms == nil {
		config.PriorityTerms = defaults.PriorityTerms
	}
	if config.SmartClassifyLimit <= 0 {
		config.SmartClassifyLimit = defaults.SmartClassifyLimit
	}
	if config.FetchTimeoutSeconds <= 0 {
		config.FetchTimeoutSeconds = defaults.FetchTimeoutSeconds
	}

	return &config, nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfigFilePath returns the default config path: ~/.config/bmorg/config.json
func DefaultConfigFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "bmorg", "config.json"), nil
}

// Package config holds the normalizer settings and their on-disk JSON form.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goatfiles/wallpapers/internal/utils"
	"github.com/goatfiles/wallpapers/pkg/geometry"
)

// Config holds the application configuration
type Config struct {
	Ratio   string  `json:"ratio"`
	Margin  float64 `json:"margin"`
	Quality int     `json:"quality"`
	Workers int     `json:"workers"`
	Smart   bool    `json:"smart"`
	Verbose bool    `json:"verbose"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Ratio:   "16:9",
		Margin:  0.17778,
		Quality: 95,
		Workers: 1,
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	if err := utils.EnsureDir(filepath.Dir(filename)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := geometry.ParseRatio(c.Ratio); err != nil {
		return err
	}

	if c.Margin < 0 {
		return fmt.Errorf("margin must not be negative")
	}

	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100")
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "wallpapers", "config.json")
}

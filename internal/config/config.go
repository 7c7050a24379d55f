package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andy/hourglass/internal/timeutil"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Timezone is the IANA name used for day boundaries and display.
	// Empty means the system local zone.
	Timezone string `yaml:"timezone"`

	// Currency is the default 3-letter code for new clients and rates
	Currency string `yaml:"currency"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

// DefaultConfigPath returns ~/.config/hourglass/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "hourglass", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "hourglass", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(homeDir, ".config", "hourglass", "hourglass.db"),
		},
		Timezone: "",
		Currency: "PLN",
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the directories the database lives in
func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(filepath.Dir(c.Database.Path), 0755)
}

// Location resolves the configured timezone, falling back to the
// system local zone when unset. An unknown name is an error, not a
// silent fallback.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return timeutil.LoadLocation(c.Timezone)
}

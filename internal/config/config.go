package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults used when the config file or a field is missing
const (
	DefaultLogLevel    = "info"
	DefaultBufferSize  = 100
	DefaultPublishMode = "draft"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Events   EventsConfig   `yaml:"events"`
	Projects ProjectsConfig `yaml:"projects"`
}

// DatabaseConfig locates the SQLite file. An empty path means ~/.tramo/tramo.db.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls the log file written under ~/.tramo/logs
type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// EventsConfig sizes the in-process event broker
type EventsConfig struct {
	BufferSize int `yaml:"buffer_size"`
}

// ProjectsConfig holds defaults for project creation
type ProjectsConfig struct {
	// DefaultMode is "publish" or "draft"
	DefaultMode string `yaml:"default_mode"`
}

// Default returns the built-in configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		// Return default config if we can't determine config path
		config := Default()
		applyEnv(config)
		return config, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads config from path, falling back to defaults when the file
// does not exist. TRAMO_* environment variables override file values.
func LoadFile(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(&config)

	// Fill in any missing values with defaults
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Validate rejects values no default can fix
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Events.BufferSize < 0 {
		return fmt.Errorf("events.buffer_size must not be negative, got %d", c.Events.BufferSize)
	}
	switch c.Projects.DefaultMode {
	case "publish", "draft":
	default:
		return fmt.Errorf("projects.default_mode must be publish or draft, got %q", c.Projects.DefaultMode)
	}
	return nil
}

// ParseLevel converts a config level name into a slog level
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return l, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// Path returns the config file location
func Path() (string, error) {
	return getConfigPath()
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tramo", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "tramo", "config.yaml"), nil
}

func applyEnv(c *Config) {
	if v := os.Getenv("TRAMO_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("TRAMO_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TRAMO_EVENT_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Events.BufferSize = n
		}
	}
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Events.BufferSize == 0 {
		c.Events.BufferSize = DefaultBufferSize
	}
	if c.Projects.DefaultMode == "" {
		c.Projects.DefaultMode = DefaultPublishMode
	}
}

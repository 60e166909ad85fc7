package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Spotify     SpotifyConfig     `toml:"spotify"`
	Database    DatabaseConfig    `toml:"database"`
	Playlists   PlaylistsConfig   `toml:"playlists"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig points at the local bearer token file.
type CredentialsConfig struct {
	TokenPath string `toml:"token_path"`
}

// SpotifyConfig contains Spotify Web API client settings.
type SpotifyConfig struct {
	BaseURL   string        `toml:"base_url"`
	PageLimit int           `toml:"page_limit"`
	PageDelay time.Duration `toml:"page_delay"`
	Timeout   time.Duration `toml:"timeout"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path   string `toml:"path"`
	Driver string `toml:"driver"`
}

// PlaylistsConfig holds playlist ids used when none are given on the command line.
type PlaylistsConfig struct {
	Default []string `toml:"default"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// LoadConfigOrDefault loads the config at path if it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

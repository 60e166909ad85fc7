package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./data/spotify.db" {
			t.Errorf("expected database path ./data/spotify.db, got %s", config.Database.Path)
		}

		if config.Database.Driver != "sqlite3" {
			t.Errorf("expected driver sqlite3, got %s", config.Database.Driver)
		}

		if config.Credentials.TokenPath != "./keys/auth.txt" {
			t.Errorf("expected token path ./keys/auth.txt, got %s", config.Credentials.TokenPath)
		}

		if config.Spotify.PageLimit != 5 {
			t.Errorf("expected page limit 5, got %d", config.Spotify.PageLimit)
		}

		if config.Spotify.PageDelay != time.Second {
			t.Errorf("expected page delay 1s, got %v", config.Spotify.PageDelay)
		}

		if config.Spotify.Timeout != 30*time.Second {
			t.Errorf("expected timeout 30s, got %v", config.Spotify.Timeout)
		}

		if len(config.Playlists.Default) != 1 {
			t.Errorf("expected one default playlist, got %d", len(config.Playlists.Default))
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
driver = "sqlite"

[spotify]
page_limit = 50
page_delay = "250ms"

[credentials]
token_path = "/secrets/token.txt"

[playlists]
default = ["a", "b"]
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Database.Driver != "sqlite" {
			t.Errorf("expected driver sqlite, got %s", config.Database.Driver)
		}
		if config.Spotify.PageLimit != 50 {
			t.Errorf("expected page limit 50, got %d", config.Spotify.PageLimit)
		}
		if config.Spotify.PageDelay != 250*time.Millisecond {
			t.Errorf("expected page delay 250ms, got %v", config.Spotify.PageDelay)
		}
		if config.Spotify.BaseURL != "https://api.spotify.com/v1" {
			t.Errorf("expected default base url to survive, got %s", config.Spotify.BaseURL)
		}
		if config.Credentials.TokenPath != "/secrets/token.txt" {
			t.Errorf("expected token path /secrets/token.txt, got %s", config.Credentials.TokenPath)
		}
		if len(config.Playlists.Default) != 2 {
			t.Errorf("expected 2 default playlists, got %d", len(config.Playlists.Default))
		}
	})

	t.Run("LoadConfig errors", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}

		configPath := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(configPath, []byte("[database\npath = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfigOrDefault", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("expected defaults, got error %v", err)
		}
		if config.Database.Driver != "sqlite3" {
			t.Errorf("expected default driver, got %s", config.Database.Driver)
		}
	})
}

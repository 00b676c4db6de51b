// Package config loads the stickerforge configuration file.
//
// The file lives at ~/.config/stickerforge/config.toml (or
// $XDG_CONFIG_HOME/stickerforge/config.toml) and is entirely optional:
// every field has a usable default, and CLI flags override file values.
//
// Example:
//
//	[generation]
//	endpoint = "https://imagegen.example.com/v1/edits"
//	api_key_env = "STICKERFORGE_API_KEY"
//
//	[cache]
//	backend = "file"          # file | redis | none
//	ttl_hours = 24
//
//	[editor]
//	default_size = 48
//	palette = ["🔥", "⭐", "🌊", "🌸", "⚡"]
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full configuration tree.
type Config struct {
	Generation Generation `toml:"generation"`
	Cache      CacheConf  `toml:"cache"`
	Editor     Editor     `toml:"editor"`
}

// Generation configures the image-generation service client.
type Generation struct {
	// Endpoint is the URL of the generation API.
	Endpoint string `toml:"endpoint"`
	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never lives in the config file.
	APIKeyEnv string `toml:"api_key_env"`
	// TimeoutSeconds bounds one generation call including retries.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// APIKey resolves the API key from the configured environment variable.
func (g Generation) APIKey() string {
	if g.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(g.APIKeyEnv)
}

// CacheConf configures the generation response cache.
type CacheConf struct {
	// Backend selects the cache implementation: "file", "redis", "none".
	Backend string `toml:"backend"`
	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`
	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `toml:"redis_addr"`
	// RedisDB selects the Redis database number.
	RedisDB int `toml:"redis_db"`
	// TTLHours is how long generated artifacts stay cached.
	TTLHours int `toml:"ttl_hours"`
}

// Editor configures editing defaults.
type Editor struct {
	// DefaultSize is the size assigned to newly placed markers (pixels).
	DefaultSize float64 `toml:"default_size"`
	// Palette is the ordered list of tags offered for placement.
	Palette []string `toml:"palette"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Generation: Generation{
			Endpoint:       "http://localhost:8085/v1/edits",
			APIKeyEnv:      "STICKERFORGE_API_KEY",
			TimeoutSeconds: 120,
		},
		Cache: CacheConf{
			Backend:  "file",
			TTLHours: 24,
		},
		Editor: Editor{
			DefaultSize: 48,
			Palette:     []string{"🔥", "⭐", "🌊", "🌸", "⚡", "🎈", "🍀", "🌙"},
		},
	}
}

// Path returns the default config file location following XDG conventions.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "stickerforge", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "stickerforge", "config.toml"), nil
}

// Load reads the config file at path, layering it over the defaults.
// A missing file is not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

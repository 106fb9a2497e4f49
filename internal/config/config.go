// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all addon configuration.
type Config struct {
	Port       int     `toml:"port"`
	TMDBAPIKey string  `toml:"tmdb_api_key"`
	Fetch      Fetch   `toml:"fetch"`
	Catalog    Catalog `toml:"catalog"`
}

// Fetch controls the HTML retrieval layer.
type Fetch struct {
	MaxAttempts     int `toml:"max_attempts"`
	RetryDelayMS    int `toml:"retry_delay_ms"`
	ChallengeWaitMS int `toml:"challenge_wait_ms"`
}

// Catalog controls the catalog assembler.
type Catalog struct {
	Limit int `toml:"limit"`
	// PlaceholderEntry emits one synthetic entry when a crawl finds nothing,
	// so an empty catalog is distinguishable from a fetch failure.
	PlaceholderEntry bool `toml:"placeholder_entry"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Port:       7000,
		TMDBAPIKey: "40053dd5e221eea2948a2143f297b48f",
		Fetch: Fetch{
			MaxAttempts:     3,
			RetryDelayMS:    1000,
			ChallengeWaitMS: 2000,
		},
		Catalog: Catalog{
			Limit:            50,
			PlaceholderEntry: true,
		},
	}
}

// RetryDelay returns the base backoff delay between fetch attempts.
func (f Fetch) RetryDelay() time.Duration {
	return time.Duration(f.RetryDelayMS) * time.Millisecond
}

// ChallengeWait returns the cooldown after a detected challenge page.
func (f Fetch) ChallengeWait() time.Duration {
	return time.Duration(f.ChallengeWaitMS) * time.Millisecond
}

// Load reads the config file at path and merges it over the defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the addon cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Fetch.MaxAttempts < 1 {
		return fmt.Errorf("fetch.max_attempts must be at least 1, got %d", c.Fetch.MaxAttempts)
	}
	if c.Fetch.RetryDelayMS < 0 {
		return fmt.Errorf("fetch.retry_delay_ms must not be negative, got %d", c.Fetch.RetryDelayMS)
	}
	if c.Catalog.Limit < 1 {
		return fmt.Errorf("catalog.limit must be at least 1, got %d", c.Catalog.Limit)
	}
	return nil
}

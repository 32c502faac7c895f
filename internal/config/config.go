// Package config provides configuration loading for councild.
package config

import (
	"fmt"
	"time"

	"github.com/councilhq/councild/internal/logging"
	"github.com/councilhq/councild/internal/model"
)

// Config is the full councild configuration tree.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   logging.Config  `koanf:"logging"`
	Anthropic model.Config    `koanf:"anthropic"`
	Council   CouncilConfig   `koanf:"council"`
	Store     StoreConfig     `koanf:"store"`
	Horoscope HoroscopeConfig `koanf:"horoscope"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Personas  PersonasConfig  `koanf:"personas"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// CouncilConfig bounds the orchestration loop.
type CouncilConfig struct {
	MinTurns int `koanf:"min_turns"`
	MaxTurns int `koanf:"max_turns"`
}

// StoreConfig selects the session persistence backend.
type StoreConfig struct {
	Driver string `koanf:"driver"` // memory or sqlite
	Path   string `koanf:"path"`   // sqlite file path
}

// HoroscopeConfig tunes the horoscope result cache.
type HoroscopeConfig struct {
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
}

// RateLimitConfig bounds council creation per client.
type RateLimitConfig struct {
	DailyCouncils int `koanf:"daily_councils"`
}

// PersonasConfig points at the persona profile directory.
type PersonasConfig struct {
	Dir string `koanf:"dir"`
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Council.MinTurns < 1 {
		return fmt.Errorf("council min_turns must be at least 1, got %d", c.Council.MinTurns)
	}
	if c.Council.MaxTurns < c.Council.MinTurns {
		return fmt.Errorf("council max_turns (%d) must be >= min_turns (%d)", c.Council.MaxTurns, c.Council.MinTurns)
	}
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("store path is required for the sqlite driver")
	}
	return nil
}

// Package config loads server configuration from a TOML file with sane
// defaults, so `interomap serve` runs without any file at all.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/interomap/interomap/pkg/drawing"
	"github.com/interomap/interomap/pkg/errors"
	"github.com/interomap/interomap/pkg/session"
)

// Config is the full server configuration.
type Config struct {
	Listen   string   `toml:"listen"`
	Variable string   `toml:"variable"`
	Budget   int      `toml:"budget"`
	TTL      Duration `toml:"ttl"`
	Store    string   `toml:"store"`
	Redis    Redis    `toml:"redis"`
}

// Redis configures the optional redis-backed session store.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Duration wraps time.Duration so TOML values can be written as "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:   ":8420",
		Variable: "interomap",
		Budget:   drawing.DefaultBudget,
		TTL:      Duration{session.DefaultTTL},
		Store:    "memory",
		Redis: Redis{
			Addr: "localhost:6379",
		},
	}
}

// Load reads a TOML file over the defaults. An empty path returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New(errors.ErrCodeInvalidInput, "listen address is empty")
	}
	if c.Budget <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "budget must be positive")
	}
	if c.TTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "ttl must be positive")
	}
	switch c.Store {
	case "memory", "redis":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store %q (want memory or redis)", c.Store)
	}
	return nil
}

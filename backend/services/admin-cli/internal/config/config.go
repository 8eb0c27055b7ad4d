package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	libconfig "batteryswap/backend/libs/config"
)

// Config defines admin console configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Bcrypt BcryptConfig `yaml:"bcrypt"`
	// Timezone names the zone swap date windows are evaluated in; empty means local.
	Timezone string `yaml:"timezone" env:"ADMIN_TIMEZONE"`
}

// APIConfig points the console at the backend REST API.
type APIConfig struct {
	BaseURL           string  `yaml:"baseUrl" env:"ADMIN_API_BASE_URL"`
	Token             string  `yaml:"token" env:"ADMIN_API_TOKEN"`
	TimeoutSeconds    int     `yaml:"timeoutSeconds" env:"ADMIN_API_TIMEOUT"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond" env:"ADMIN_API_RPS"`
	Burst             int     `yaml:"burst" env:"ADMIN_API_BURST"`
}

type BcryptConfig struct {
	Cost int `yaml:"cost" env:"ADMIN_BCRYPT_COST"`
}

func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:5000/api",
			TimeoutSeconds:    15,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Bcrypt: BcryptConfig{Cost: 10},
	}
}

// Load uses shared config loader and validates required fields.
func Load() (*Config, error) {
	cfg := Defaults()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		return errors.New("config: api base url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api base url %q must be an http(s) url", c.API.BaseURL)
	}
	if c.API.RequestsPerSecond < 0 {
		return errors.New("config: api requestsPerSecond must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", name, err)
	}
	return loc, nil
}

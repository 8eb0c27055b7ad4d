package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "batteryswap/backend/libs/config"
)

// Channel transports.
const (
	TransportSocketIO = "socketio"
	TransportRedis    = "redis"
)

// Config defines kiosk agent configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Station StationConfig `yaml:"station"`
	Channel ChannelConfig `yaml:"channel"`
	Redis   RedisConfig   `yaml:"redis"`
	Journal JournalConfig `yaml:"journal"`
}

type HTTPConfig struct {
	Port string `yaml:"port" env:"KIOSK_HTTP_PORT"`
}

type StationConfig struct {
	ID string `yaml:"id" env:"KIOSK_STATION_ID"`
}

// ChannelConfig selects and tunes the real-time event source.
type ChannelConfig struct {
	Transport           string `yaml:"transport" env:"KIOSK_CHANNEL_TRANSPORT"`
	URL                 string `yaml:"url" env:"KIOSK_CHANNEL_URL"`
	Namespace           string `yaml:"namespace" env:"KIOSK_CHANNEL_NAMESPACE"`
	PingTimeoutSeconds  int    `yaml:"pingTimeoutSeconds" env:"KIOSK_CHANNEL_PING_TIMEOUT"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds" env:"KIOSK_CHANNEL_WRITE_TIMEOUT"`
	ReconnectSeconds    int    `yaml:"reconnectSeconds" env:"KIOSK_CHANNEL_RECONNECT"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"KIOSK_REDIS_ADDR"`
	Password string `yaml:"password" env:"KIOSK_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"KIOSK_REDIS_DB"`
	Channel  string `yaml:"channel" env:"KIOSK_REDIS_CHANNEL"`
}

// JournalConfig enables the event journal when DSN is set.
type JournalConfig struct {
	DSN     string `yaml:"dsn" env:"KIOSK_JOURNAL_DSN"`
	Migrate bool   `yaml:"migrate" env:"KIOSK_JOURNAL_MIGRATE"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() *Config {
	return &Config{
		HTTP:    HTTPConfig{Port: "8090"},
		Station: StationConfig{ID: "kiosk-1"},
		Channel: ChannelConfig{
			Transport:           TransportSocketIO,
			URL:                 "http://localhost:5000",
			Namespace:           "/",
			PingTimeoutSeconds:  45,
			WriteTimeoutSeconds: 10,
			ReconnectSeconds:    5,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			Channel: "kiosk:events",
		},
		Journal: JournalConfig{Migrate: true},
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

// Validate checks the fields the selected transport needs.
func (c *Config) Validate() error {
	c.Channel.Transport = strings.ToLower(strings.TrimSpace(c.Channel.Transport))
	if strings.TrimSpace(c.Station.ID) == "" {
		return errors.New("config: station id is required")
	}
	switch c.Channel.Transport {
	case TransportSocketIO:
		if strings.TrimSpace(c.Channel.URL) == "" {
			return errors.New("config: channel url is required for socketio transport")
		}
	case TransportRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" || strings.TrimSpace(c.Redis.Channel) == "" {
			return errors.New("config: redis addr and channel are required for redis transport")
		}
	default:
		return fmt.Errorf("config: unknown channel transport %q", c.Channel.Transport)
	}
	return nil
}

// HTTPAddress returns :port style address.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8090"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// PingWindow returns the read deadline used when the server sends no ping settings.
func (c *Config) PingWindow() time.Duration {
	return seconds(c.Channel.PingTimeoutSeconds, 45*time.Second)
}

// WriteTimeout returns websocket write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return seconds(c.Channel.WriteTimeoutSeconds, 10*time.Second)
}

// ReconnectDelay returns the pause between connection attempts.
func (c *Config) ReconnectDelay() time.Duration {
	return seconds(c.Channel.ReconnectSeconds, 5*time.Second)
}

// JournalEnabled reports whether events are persisted.
func (c *Config) JournalEnabled() bool {
	return strings.TrimSpace(c.Journal.DSN) != ""
}

func seconds(v int, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return time.Duration(v) * time.Second
}

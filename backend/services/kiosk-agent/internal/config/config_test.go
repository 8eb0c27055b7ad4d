package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	libconfig "batteryswap/backend/libs/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(libconfig.PathEnv, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddress() != ":8090" {
		t.Fatalf("unexpected address %q", cfg.HTTPAddress())
	}
	if cfg.Channel.Transport != TransportSocketIO || cfg.Channel.URL != "http://localhost:5000" {
		t.Fatalf("unexpected channel %+v", cfg.Channel)
	}
	if cfg.JournalEnabled() {
		t.Fatal("journal must be off without a dsn")
	}
	if cfg.ReconnectDelay() != 5*time.Second || cfg.PingWindow() != 45*time.Second {
		t.Fatalf("unexpected durations %v %v", cfg.ReconnectDelay(), cfg.PingWindow())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiosk.yaml")
	data := []byte(`
http:
  port: ":9100"
station:
  id: ST-42
channel:
  transport: Redis
  reconnectSeconds: 2
redis:
  addr: redis:6379
  channel: station-42
journal:
  dsn: postgres://kiosk@db/kiosk
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(libconfig.PathEnv, path)
	t.Setenv("KIOSK_STATION_ID", "ST-43")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Station.ID != "ST-43" {
		t.Fatalf("env override lost: %q", cfg.Station.ID)
	}
	if cfg.Channel.Transport != TransportRedis || cfg.Redis.Channel != "station-42" {
		t.Fatalf("unexpected channel config %+v %+v", cfg.Channel, cfg.Redis)
	}
	if cfg.HTTPAddress() != ":9100" || cfg.ReconnectDelay() != 2*time.Second {
		t.Fatalf("unexpected values %q %v", cfg.HTTPAddress(), cfg.ReconnectDelay())
	}
	if !cfg.JournalEnabled() || !cfg.Journal.Migrate {
		t.Fatal("expected journal enabled with migrations")
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Channel.Transport = "mqtt"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown transport error")
	}

	cfg = Defaults()
	cfg.Station.ID = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected station id error")
	}

	cfg = Defaults()
	cfg.Channel.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected url error")
	}

	cfg = Defaults()
	cfg.Channel.Transport = TransportRedis
	cfg.Redis.Channel = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected redis channel error")
	}
}

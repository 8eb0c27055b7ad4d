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
	if cfg.API.BaseURL != "http://localhost:5000/api" || cfg.Timeout() != 15*time.Second {
		t.Fatalf("unexpected api config %+v", cfg.API)
	}
	if cfg.Bcrypt.Cost != 10 {
		t.Fatalf("unexpected bcrypt cost %d", cfg.Bcrypt.Cost)
	}
	if loc, _ := cfg.Location(); loc != time.Local {
		t.Fatalf("unexpected location %v", loc)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.yaml")
	data := []byte(`
api:
  baseUrl: https://swap.example.com/api/
  timeoutSeconds: 3
  burst: 2
bcrypt:
  cost: 12
timezone: UTC
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(libconfig.PathEnv, path)
	t.Setenv("ADMIN_API_TOKEN", "abc")
	t.Setenv("ADMIN_API_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://swap.example.com/api" {
		t.Fatalf("base url not normalised: %q", cfg.API.BaseURL)
	}
	if cfg.API.Token != "abc" || cfg.API.RequestsPerSecond != 2.5 || cfg.API.Burst != 2 {
		t.Fatalf("unexpected api config %+v", cfg.API)
	}
	if cfg.Timeout() != 3*time.Second || cfg.Bcrypt.Cost != 12 {
		t.Fatalf("unexpected timeout/cost %v %d", cfg.Timeout(), cfg.Bcrypt.Cost)
	}
	if loc, _ := cfg.Location(); loc.String() != "UTC" {
		t.Fatalf("unexpected location %v", loc)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty url":    func(c *Config) { c.API.BaseURL = " " },
		"bad scheme":   func(c *Config) { c.API.BaseURL = "ftp://host/api" },
		"negative rps": func(c *Config) { c.API.RequestsPerSecond = -1 },
		"bad timezone": func(c *Config) { c.Timezone = "Mars/Olympus" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Defaults()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

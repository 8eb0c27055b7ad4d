package config

import (
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	HTTP struct {
		Port string `yaml:"port" env:"SAMPLE_HTTP_PORT"`
	} `yaml:"http"`
	Station struct {
		ID      string
		Retries int
	} `yaml:"station"`
	Ratio  float64  `yaml:"ratio"`
	Debug  bool     `yaml:"debug"`
	Topics []string `yaml:"topics"`
	Secret string   `env:"-"`
}

func TestLoadConfigFromFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	body := []byte("http:\n  port: \"9000\"\nstation:\n  id: st-1\nratio: 0.5\ntopics: [a, b]\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SAMPLE_HTTP_PORT", "9100")
	t.Setenv("STATION_RETRIES", "3")
	t.Setenv("DEBUG", "true")

	var cfg sample
	if err := LoadConfigFrom(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTP.Port != "9100" {
		t.Fatalf("expected env override for port, got %q", cfg.HTTP.Port)
	}
	if cfg.Station.ID != "st-1" {
		t.Fatalf("expected station id from file, got %q", cfg.Station.ID)
	}
	if cfg.Station.Retries != 3 {
		t.Fatalf("expected nested env key STATION_RETRIES, got %d", cfg.Station.Retries)
	}
	if !cfg.Debug || cfg.Ratio != 0.5 {
		t.Fatalf("unexpected debug/ratio: %v %v", cfg.Debug, cfg.Ratio)
	}
	if len(cfg.Topics) != 2 || cfg.Topics[1] != "b" {
		t.Fatalf("unexpected topics %v", cfg.Topics)
	}
}

func TestLoadConfigSliceFromEnv(t *testing.T) {
	t.Setenv("TOPICS", " x, ,y ")

	var cfg sample
	if err := LoadConfigFrom("", &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Topics) != 2 || cfg.Topics[0] != "x" || cfg.Topics[1] != "y" {
		t.Fatalf("unexpected topics %v", cfg.Topics)
	}
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	if err := LoadConfigFrom("", nil); err == nil {
		t.Fatal("expected error for nil target")
	}
	var notStruct int
	if err := LoadConfigFrom("", &notStruct); err == nil {
		t.Fatal("expected error for non-struct target")
	}

	t.Setenv("STATION_RETRIES", "many")
	var cfg sample
	if err := LoadConfigFrom("", &cfg); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg sample
	if err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); err == nil {
		t.Fatal("expected read error")
	}
}

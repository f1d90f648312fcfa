package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timezone != "Europe/Paris" || cfg.Width != 800 || cfg.Height != 1000 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 perms, got %v", info.Mode().Perm())
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Listen = "0.0.0.0:9999"
	cfg.ICS = []ICSSourceConfig{{URL: "https://example.com/cal.ics", ID: "team", Name: "Team", Color: "#38A169"}}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Listen != "0.0.0.0:9999" {
		t.Fatalf("listen lost: %q", loaded.Listen)
	}
	if len(loaded.ICS) != 1 || loaded.ICS[0].ID != "team" || loaded.ICS[0].Color != "#38A169" {
		t.Fatalf("ics sources lost: %+v", loaded.ICS)
	}
}

func TestNormalizeFillsPartialConfig(t *testing.T) {
	cfg := &Config{Listen: "127.0.0.1:7000"}
	cfg.Normalize()
	if cfg.Timezone == "" || cfg.BackendURL == "" || cfg.RefreshCron == "" {
		t.Fatalf("defaults missing: %+v", cfg)
	}
	if cfg.Listen != "127.0.0.1:7000" {
		t.Fatalf("explicit value overwritten: %q", cfg.Listen)
	}
	if cfg.Width != 800 || cfg.Height != 1000 {
		t.Fatalf("dimension defaults missing: %+v", cfg)
	}
}

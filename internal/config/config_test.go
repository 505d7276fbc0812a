package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Browse.DebounceMS != 200 {
		t.Errorf("expected 200ms debounce, got %d", cfg.Browse.DebounceMS)
	}
	if got := cfg.GetAddress(); got != "0.0.0.0:8080" {
		t.Errorf("GetAddress() = %q", got)
	}
}

func TestLoadConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Catalog.Location != DefaultConfig().Catalog.Location {
		t.Errorf("unexpected catalog location %q", cfg.Catalog.Location)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	if !strings.HasPrefix(string(data), "# linernotes configuration") {
		t.Errorf("config file is missing its header")
	}
	if !strings.Contains(string(data), "[catalog]") {
		t.Errorf("config file is missing the catalog section")
	}
}

func TestLoadOrCreateReportsCreation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if _, created, err := LoadOrCreate(path); err != nil || !created {
		t.Fatalf("first load: created = %v, err = %v", created, err)
	}
	if _, created, err := LoadOrCreate(path); err != nil || created {
		t.Errorf("second load: created = %v, err = %v", created, err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
  port = "9090"
  host = "127.0.0.1"

[catalog]
  location = "https://example.com/data/albums.json"
  format = "json"
  locale = "de"

[browse]
  debounce_ms = 150

[logging]
  level = "debug"
  format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != "9090" || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server section not applied: %+v", cfg.Server)
	}
	if cfg.Catalog.Locale != "de" || cfg.Catalog.Format != "json" {
		t.Errorf("catalog section not applied: %+v", cfg.Catalog)
	}
	if cfg.Browse.DebounceMS != 150 {
		t.Errorf("expected debounce 150, got %d", cfg.Browse.DebounceMS)
	}
	// Unset keys keep their defaults
	if cfg.Server.StaticDir != "./static" {
		t.Errorf("expected default static dir, got %q", cfg.Server.StaticDir)
	}
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\n  level = \"loud\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LINERNOTES_PORT":           "7000",
		"LINERNOTES_CATALOG":        "s3://site/albums.yaml",
		"LINERNOTES_DEBOUNCE_MS":    " 250 ",
		"LINERNOTES_REDUCED_MOTION": "true",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}

	if cfg.Server.Port != "7000" {
		t.Errorf("port override not applied: %q", cfg.Server.Port)
	}
	if cfg.Catalog.Location != "s3://site/albums.yaml" {
		t.Errorf("catalog override not applied: %q", cfg.Catalog.Location)
	}
	if cfg.Browse.DebounceMS != 250 {
		t.Errorf("debounce override not applied: %d", cfg.Browse.DebounceMS)
	}
	if !cfg.Browse.ReducedMotion {
		t.Error("reduced motion override not applied")
	}
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"LINERNOTES_DEBOUNCE_MS", "soon"},
		{"LINERNOTES_WATCH", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ApplyEnv(func(key string) (string, bool) {
				if key == tt.key {
					return tt.value, true
				}
				return "", false
			})
			if err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"empty catalog", func(c *Config) { c.Catalog.Location = "" }},
		{"bad format", func(c *Config) { c.Catalog.Format = "xml" }},
		{"empty locale", func(c *Config) { c.Catalog.Locale = "" }},
		{"negative debounce", func(c *Config) { c.Browse.DebounceMS = -1 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected at least one default source")
	}
	if cfg.RefreshIntervalMS == 0 {
		t.Error("expected refresh_interval_ms to be set")
	}
	if err := validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestRefreshInterval(t *testing.T) {
	cfg := &Config{RefreshIntervalMS: 1200000}
	if got := cfg.RefreshInterval(); got != 20*time.Minute {
		t.Errorf("expected 20m, got %v", got)
	}

	cfg.RefreshIntervalMS = 0
	if got := cfg.RefreshInterval(); got != 20*time.Minute {
		t.Errorf("expected 20m default, got %v", got)
	}

	cfg.RefreshIntervalMS = 60000
	if got := cfg.RefreshInterval(); got != time.Minute {
		t.Errorf("expected 1m, got %v", got)
	}
}

func TestCacheDefaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.CacheTTL(); got != 30*time.Minute {
		t.Errorf("expected 30m TTL default, got %v", got)
	}
	if got := cfg.MaxArticles(); got != 1000 {
		t.Errorf("expected 1000 max articles default, got %d", got)
	}
	if got := cfg.MaxEntries(); got != 20 {
		t.Errorf("expected 20 entries default, got %d", got)
	}

	cfg.Cache.TTL = "15m"
	if got := cfg.CacheTTL(); got != 15*time.Minute {
		t.Errorf("expected 15m, got %v", got)
	}
	cfg.Cache.TTL = "invalid"
	if got := cfg.CacheTTL(); got != 30*time.Minute {
		t.Errorf("expected 30m fallback for invalid ttl, got %v", got)
	}
}

func TestCategories(t *testing.T) {
	cfg := &Config{
		Sources: []Source{
			{Name: "A", Category: "world"},
			{Name: "B", Category: "business"},
			{Name: "C", Category: "world"},
		},
	}
	got := cfg.Categories()
	want := []string{"world", "business"}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Sources: []Source{
				{Name: "A", URL: "https://a.com/rss", Category: "world", Color: "#FFF"},
			},
		}
	}

	if err := validate(base()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no sources", func(c *Config) { c.Sources = nil }},
		{"missing name", func(c *Config) { c.Sources[0].Name = "" }},
		{"missing url", func(c *Config) { c.Sources[0].URL = "" }},
		{"bad scheme", func(c *Config) { c.Sources[0].URL = "ftp://a.com/rss" }},
		{"missing category", func(c *Config) { c.Sources[0].Category = "" }},
		{"bad backend", func(c *Config) { c.Cache.Backend = "redis" }},
	}
	for _, tt := range tests {
		cfg := base()
		tt.mutate(cfg)
		if err := validate(cfg); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
refresh_interval_ms: 60000
sources:
  - name: Test
    url: https://example.com/rss
    category: technology
    color: "#0A8935"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RefreshInterval() != time.Minute {
		t.Errorf("expected 1m interval, got %v", cfg.RefreshInterval())
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "Test" {
		t.Errorf("unexpected sources: %+v", cfg.Sources)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "nope", "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected default sources")
	}
}

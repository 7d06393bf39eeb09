package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Source is a configured feed endpoint. Category and Color are inherited by
// every article the source produces; feed content never overrides them.
type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Color    string `yaml:"color"`
}

type CacheConfig struct {
	Backend     string `yaml:"backend,omitempty"` // "file" (default) or "sqlite"
	Dir         string `yaml:"dir,omitempty"`
	TTL         string `yaml:"ttl,omitempty"`
	MaxArticles int    `yaml:"max_articles,omitempty"`
}

type Config struct {
	RefreshIntervalMS int64       `yaml:"refresh_interval_ms"`
	MaxEntriesPerFeed int         `yaml:"max_entries_per_feed,omitempty"`
	FetchTimeout      string      `yaml:"fetch_timeout,omitempty"`
	Cache             CacheConfig `yaml:"cache,omitempty"`
	Sources           []Source    `yaml:"sources"`
}

// RefreshInterval returns the refresh period, defaulting to 20 minutes.
func (c *Config) RefreshInterval() time.Duration {
	if c.RefreshIntervalMS <= 0 {
		return 20 * time.Minute
	}
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}

// CacheTTL returns the snapshot time-to-live, defaulting to 30 minutes.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// MaxArticles returns the retained-article bound, defaulting to 1000.
func (c *Config) MaxArticles() int {
	if c.Cache.MaxArticles <= 0 {
		return 1000
	}
	return c.Cache.MaxArticles
}

// MaxEntries returns the per-source entry cap, defaulting to 20.
func (c *Config) MaxEntries() int {
	if c.MaxEntriesPerFeed <= 0 {
		return 20
	}
	return c.MaxEntriesPerFeed
}

// FetchTimeoutDuration returns the per-source request timeout, defaulting to 10s.
func (c *Config) FetchTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Categories returns the distinct source categories in configuration order.
func (c *Config) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range c.Sources {
		if s.Category != "" && !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "rss-live", "config.yaml")
}

// CacheDir returns the snapshot directory, honoring the config override.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return filepath.Join(xdg.CacheHome, "rss-live")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}
	validBackends := map[string]bool{"": true, "file": true, "sqlite": true}
	if !validBackends[cfg.Cache.Backend] {
		return fmt.Errorf("unknown cache backend %q (valid: file, sqlite)", cfg.Cache.Backend)
	}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
		if s.Category == "" {
			return fmt.Errorf("source %q: category is required", s.Name)
		}
	}
	return nil
}

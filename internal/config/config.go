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

const (
	defaultArchive   = "data/feed_entries.jsonl"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "parole-che-uccidono (+https://github.com/ondata/parole-che-uccidono)"

	// Environment overrides, mainly for the scheduled workflow.
	envFeedURL = "PAROLE_FEED_URL"
	envArchive = "PAROLE_ARCHIVE"
)

type Source struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type Config struct {
	Archive     string   `yaml:"archive,omitempty"`
	Summary     string   `yaml:"summary,omitempty"`
	Timeout     string   `yaml:"timeout,omitempty"`
	UserAgent   string   `yaml:"user_agent,omitempty"`
	DedupeLinks bool     `yaml:"dedupe_links,omitempty"`
	Sources     []Source `yaml:"sources"`
}

// ArchivePath returns the archive location: env override, then config,
// then the repository-relative default the committing workflow expects.
func (c *Config) ArchivePath() string {
	if p := os.Getenv(envArchive); p != "" {
		return p
	}
	if c.Archive != "" {
		return c.Archive
	}
	return defaultArchive
}

// SummaryPath returns where the domain summary should be written, or ""
// when the report goes to stdout only.
func (c *Config) SummaryPath() string {
	return c.Summary
}

func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

func (c *Config) GetUserAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return defaultUserAgent
}

// EnabledSources returns the sources to poll. PAROLE_FEED_URL replaces the
// configured list with a single ad-hoc source, so CI runs can point at a
// different alert without editing the config file.
func (c *Config) EnabledSources() []Source {
	if u := os.Getenv(envFeedURL); u != "" {
		return []Source{{Name: "env", URL: u, Enabled: true}}
	}
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) SourceNames() []string {
	var names []string
	for _, s := range c.EnabledSources() {
		names = append(names, s.Name)
	}
	return names
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "parole-che-uccidono", "config.yaml")
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

// Load reads the configuration. An empty path means "config.yaml" next to
// the working directory when present (the checkout layout CI runs from),
// otherwise the XDG config path, which is seeded with the defaults on
// first run.
func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		} else {
			path = DefaultConfigPath()
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to the config path on first run.
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
	}
	return nil
}

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
	defaultDebounce     = 300 * time.Millisecond
	defaultCopyFeedback = 2 * time.Second
	defaultTimeout      = 15 * time.Second
	defaultRetention    = 30 * 24 * time.Hour
)

type Config struct {
	DefaultSubreddit string `yaml:"default_subreddit"`
	Source           string `yaml:"source"`
	BaseURL          string `yaml:"base_url"`
	UserAgent        string `yaml:"user_agent"`
	Limit            int    `yaml:"limit"`
	Debounce         string `yaml:"debounce"`
	CopyFeedback     string `yaml:"copy_feedback"`
	Timeout          string `yaml:"timeout"`
	CacheTTL         string `yaml:"cache_ttl"`
	Retention        string `yaml:"retention"`
	LogLevel         string `yaml:"log_level"`
}

// DebounceDuration is the quiet period after the last query edit before a fetch fires.
func (c *Config) DebounceDuration() time.Duration {
	return durationOr(c.Debounce, defaultDebounce)
}

// CopyFeedbackDuration is how long a "copied" acknowledgement stays visible.
func (c *Config) CopyFeedbackDuration() time.Duration {
	return durationOr(c.CopyFeedback, defaultCopyFeedback)
}

func (c *Config) TimeoutDuration() time.Duration {
	return durationOr(c.Timeout, defaultTimeout)
}

// CacheTTLDuration returns 0 (cache disabled) unless a positive TTL is configured.
func (c *Config) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func (c *Config) RetentionDuration() time.Duration {
	if c.Retention == "" {
		return defaultRetention
	}
	d, err := ParseDuration(c.Retention)
	if err != nil {
		return defaultRetention
	}
	return d
}

func durationOr(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// ParseDuration accepts time.ParseDuration syntax plus whole days ("7d").
func ParseDuration(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "subnews", "config.yaml")
}

func HistoryPath() string {
	return filepath.Join(xdg.CacheHome, "subnews", "history.db")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "subnews", "subnews.log")
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

// Load reads the config at path (or the default location), layering it over
// the embedded defaults, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Write defaults on first run; failure is non-fatal.
		writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets SUBNEWS_* variables override file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("SUBNEWS_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("SUBNEWS_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("SUBNEWS_SUBREDDIT"); v != "" {
		cfg.DefaultSubreddit = v
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	switch cfg.Source {
	case "json", "rss":
	default:
		return fmt.Errorf("unknown source %q (valid: json, rss)", cfg.Source)
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url %q has no host", cfg.BaseURL)
	}

	if cfg.Limit < 0 || cfg.Limit > 100 {
		return fmt.Errorf("limit must be between 0 and 100, got %d", cfg.Limit)
	}

	for name, v := range map[string]string{
		"debounce":      cfg.Debounce,
		"copy_feedback": cfg.CopyFeedback,
		"timeout":       cfg.Timeout,
		"cache_ttl":     cfg.CacheTTL,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
	}
	if cfg.Retention != "" {
		if _, err := ParseDuration(cfg.Retention); err != nil {
			return fmt.Errorf("invalid retention %q: %w", cfg.Retention, err)
		}
	}

	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q (valid: debug, info, warn, error)", cfg.LogLevel)
	}
	return nil
}

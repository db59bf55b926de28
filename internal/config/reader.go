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

	"newsfeed/internal/services/news"
)

//go:embed default_reader.yaml
var defaultReaderFS embed.FS

const appName = "newsfeed"

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type StoreConfig struct {
	Driver        string `yaml:"driver"`
	Path          string `yaml:"path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type ReaderRateLimit struct {
	Requests int    `yaml:"requests"`
	Window   string `yaml:"window"`
}

// Reader is the newsreader configuration.
type Reader struct {
	ProxyURL       string          `yaml:"proxy_url"`
	PageSize       int             `yaml:"page_size"`
	Country        string          `yaml:"country"`
	Category       string          `yaml:"category"`
	SearchDelay    string          `yaml:"search_delay"`
	RequestTimeout string          `yaml:"request_timeout"`
	RateLimit      ReaderRateLimit `yaml:"rate_limit"`
	Store          StoreConfig     `yaml:"store"`
}

func (c *Reader) SearchDelayDuration() time.Duration {
	return parseDuration(c.SearchDelay, 500*time.Millisecond)
}

func (c *Reader) RequestTimeoutDuration() time.Duration {
	return parseDuration(c.RequestTimeout, 15*time.Second)
}

func (c *Reader) RateLimitWindow() time.Duration {
	return parseDuration(c.RateLimit.Window, 5*time.Second)
}

// StorePath returns the sqlite database path, defaulting to the XDG data dir.
func (c *Reader) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(xdg.DataHome, appName, "reader.db")
}

func DefaultReaderPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func loadReaderDefaults() (*Reader, error) {
	data, err := defaultReaderFS.ReadFile("default_reader.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Reader
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// LoadReader reads the reader config at path, or the XDG default when path is
// empty. A missing file yields the embedded defaults, which are also written
// out on first run. Values absent from the file keep their defaults.
func LoadReader(path string) (*Reader, error) {
	cfg, err := loadReaderDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultReaderPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: the embedded defaults still apply.
			_ = writeReaderDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validateReader(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeReaderDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultReaderFS.ReadFile("default_reader.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validateReader(cfg *Reader) error {
	u, err := url.Parse(cfg.ProxyURL)
	if err != nil {
		return fmt.Errorf("proxy_url: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("proxy_url: scheme must be http or https, got %q", u.Scheme)
	}
	if cfg.PageSize <= 0 || cfg.PageSize > news.MaxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d, got %d", news.MaxPageSize, cfg.PageSize)
	}
	if cfg.Category != "" && !validCategory(cfg.Category) {
		return fmt.Errorf("unknown category %q", cfg.Category)
	}
	if cfg.RateLimit.Requests <= 0 {
		return fmt.Errorf("rate_limit.requests must be positive, got %d", cfg.RateLimit.Requests)
	}
	switch cfg.Store.Driver {
	case DriverSQLite, DriverMemory:
	case DriverRedis:
		if cfg.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("store: unknown driver %q (valid: sqlite, redis, memory)", cfg.Store.Driver)
	}
	return nil
}

func validCategory(c string) bool {
	for _, known := range news.Categories {
		if known == c {
			return true
		}
	}
	return false
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"newsfeed/internal/apperr"
)

// Environment variable names for the upstream credential, in lookup order.
const (
	EnvAPIKey       = "NEWS_API_KEY"
	EnvLegacyAPIKey = "REACT_APP_NEWS_API_KEY"
)

type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration

	// TrustProxyHeaders keys clients by forwarding headers instead of the
	// peer address.
	TrustProxyHeaders bool
}

type UpstreamConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads the proxy configuration from the environment. A missing
// upstream credential is a configuration error; there is no fallback key.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnv("PORT", "8080"),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout:    getEnvAsDuration("REQUEST_TIMEOUT", 20*time.Second),
			TrustProxyHeaders: getEnvAsBool("TRUST_PROXY_HEADERS", false),
		},
		Upstream: UpstreamConfig{
			APIKey:  getEnv(EnvAPIKey, os.Getenv(EnvLegacyAPIKey)),
			BaseURL: strings.TrimRight(getEnv("NEWS_API_BASE_URL", "https://newsapi.org/v2"), "/"),
			Timeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:  getEnvAsBool("RATE_LIMIT_ENABLED", false),
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 10),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", 5*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Upstream.APIKey) == "" {
		return apperr.New(apperr.KindConfiguration,
			fmt.Sprintf("%s is required (%s is accepted as a fallback)", EnvAPIKey, EnvLegacyAPIKey))
	}
	if c.Upstream.Timeout <= 0 {
		return apperr.New(apperr.KindConfiguration, "UPSTREAM_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= c.Upstream.Timeout {
		return apperr.New(apperr.KindConfiguration,
			fmt.Sprintf("REQUEST_TIMEOUT (%s) must exceed UPSTREAM_TIMEOUT (%s)", c.Server.RequestTimeout, c.Upstream.Timeout))
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return apperr.New(apperr.KindConfiguration, "RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

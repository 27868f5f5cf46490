// Package config loads the service configuration from a YAML file with
// environment variable expansion, so API keys can stay out of the file.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noeul-sumini/travel-agent/core"
	"github.com/noeul-sumini/travel-agent/registry"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Session  SessionConfig  `yaml:"session"`
	Model    ModelConfig    `yaml:"model"`
	Handlers HandlersConfig `yaml:"handlers"`
	Tools    ToolsConfig    `yaml:"tools"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SessionConfig selects and configures the session store backend.
type SessionConfig struct {
	// Backend is one of "memory", "redis" or "sqlite".
	Backend string `yaml:"backend"`
	// RedisAddr is the host:port of the Redis server (redis backend only).
	RedisAddr string `yaml:"redis_addr"`
	// SQLitePath is the database file path (sqlite backend only).
	SQLitePath string `yaml:"sqlite_path"`

	TTL time.Duration `yaml:"-"`
	// Raw string value for YAML unmarshaling.
	TTLRaw string `yaml:"ttl"`
}

// ModelConfig selects and configures the language model provider.
type ModelConfig struct {
	// Provider is one of "openai", "anthropic" or "mock".
	Provider string `yaml:"provider"`
	// Name overrides the provider's default model.
	Name string `yaml:"name"`
	// APIKey authenticates against the provider. Falls back to the
	// provider SDK's own environment variable when empty.
	APIKey string `yaml:"api_key"`
}

// HandlersConfig holds per-invocation handler settings.
type HandlersConfig struct {
	Timeout time.Duration `yaml:"-"`
	// Raw string value for YAML unmarshaling.
	TimeoutRaw string `yaml:"timeout"`
}

// ToolsConfig holds API keys for the external data sources. A handler whose
// key is empty runs prompt-only and skips the live data lookup.
type ToolsConfig struct {
	WeatherAPIKey string `yaml:"weather_api_key"`
	MapsAPIKey    string `yaml:"maps_api_key"`
	FlightsAPIKey string `yaml:"flights_api_key"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path. Environment variables
// in the format ${VAR_NAME} are expanded before parsing, missing fields are
// filled with defaults and the result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses raw YAML configuration bytes. See Load.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given: in-memory
// sessions, the mock model and text logging on stderr.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables become empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = core.DefaultSessionTTL
	}
	if c.Model.Provider == "" {
		c.Model.Provider = "mock"
	}
	if c.Handlers.Timeout == 0 {
		c.Handlers.Timeout = registry.DefaultTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks that the configuration is internally consistent. Returns
// an error describing the first failure encountered.
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case "memory":
	case "redis":
		if c.Session.RedisAddr == "" {
			return fmt.Errorf("session.redis_addr is required for the redis backend")
		}
	case "sqlite":
		if c.Session.SQLitePath == "" {
			return fmt.Errorf("session.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	switch c.Model.Provider {
	case "openai", "anthropic", "mock":
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}

	if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl must not be negative")
	}
	if c.Handlers.Timeout < 0 {
		return fmt.Errorf("handlers.timeout must not be negative")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values.
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Session.TTLRaw != "" {
		cfg.Session.TTL, err = time.ParseDuration(cfg.Session.TTLRaw)
		if err != nil {
			return fmt.Errorf("parsing session.ttl %q: %w", cfg.Session.TTLRaw, err)
		}
	}

	if cfg.Handlers.TimeoutRaw != "" {
		cfg.Handlers.Timeout, err = time.ParseDuration(cfg.Handlers.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing handlers.timeout %q: %w", cfg.Handlers.TimeoutRaw, err)
		}
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// PathEnv overrides the config file location.
const PathEnv = "WEBSLAYER_CONFIG"

type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	API      APIConfig      `toml:"api"`
	Poll     PollConfig     `toml:"poll"`
	Redis    RedisConfig    `toml:"redis"`
	Storage  StorageConfig  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// BackendConfig points at the scraping backend service.
type BackendConfig struct {
	BaseURL        string `toml:"base_url" env:"API_URL"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"API_TIMEOUT_SECONDS"`
}

// APIConfig is the listen address of the HTTP dashboard.
type APIConfig struct {
	Host string `toml:"host" env:"API_HOST"`
	Port int    `toml:"port" env:"API_PORT"`
}

type PollConfig struct {
	IntervalSeconds int `toml:"interval_seconds" env:"POLL_INTERVAL_SECONDS"`
}

// RedisConfig enables the report cache and rate limiter when Addr is set.
type RedisConfig struct {
	Addr              string `toml:"addr" env:"REDIS_ADDR"`
	Password          string `toml:"password" env:"REDIS_PASSWORD"`
	DB                int    `toml:"db" env:"REDIS_DB"`
	ReportTTLSeconds  int    `toml:"report_ttl_seconds" env:"REDIS_REPORT_TTL_SECONDS"`
	RateLimit         int    `toml:"rate_limit" env:"REDIS_RATE_LIMIT"`
	RateWindowSeconds int    `toml:"rate_window_seconds" env:"REDIS_RATE_WINDOW_SECONDS"`
}

// StorageConfig enables report archiving to an S3-compatible bucket when
// Endpoint is set.
type StorageConfig struct {
	Endpoint  string `toml:"endpoint" env:"S3_ENDPOINT"`
	Bucket    string `toml:"bucket" env:"S3_BUCKET"`
	AccessKey string `toml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `toml:"secret_key" env:"S3_SECRET_KEY"`
	UseSSL    bool   `toml:"use_ssl" env:"S3_USE_SSL"`
}

// DatabaseConfig enables job history when URL is set.
type DatabaseConfig struct {
	URL string `toml:"url" env:"DATABASE_URL"`
}

type LogConfig struct {
	Level string `toml:"level" env:"LOG_LEVEL"`
	File  string `toml:"file" env:"LOG_FILE"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Backend.BaseURL = "http://localhost:8000/webslayer"
	cfg.Backend.TimeoutSeconds = 30
	cfg.API.Host = "0.0.0.0"
	cfg.API.Port = 8080
	cfg.Poll.IntervalSeconds = 10
	cfg.Redis.ReportTTLSeconds = 3600
	cfg.Redis.RateLimit = 120
	cfg.Redis.RateWindowSeconds = 60
	cfg.Storage.Bucket = "webslayer-reports"
	cfg.Log.Level = "info"
	return cfg
}

// BackendTimeout returns the per-request timeout for backend calls.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// PollInterval returns the delay between job status fetches.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalSeconds) * time.Second
}

// ReportTTL returns how long fetched reports stay cached.
func (c *Config) ReportTTL() time.Duration {
	return time.Duration(c.Redis.ReportTTLSeconds) * time.Second
}

// RateWindow returns the rate limiter window.
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.Redis.RateWindowSeconds) * time.Second
}

// Addr returns the dashboard listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// Sanitize applies guardrails to values loaded from file and environment.
func (c *Config) Sanitize() {
	def := DefaultConfig()
	c.Backend.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.Backend.BaseURL), "/")
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = def.Backend.BaseURL
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = def.Backend.TimeoutSeconds
	}
	if c.API.Host == "" {
		c.API.Host = def.API.Host
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		c.API.Port = def.API.Port
	}
	if c.Poll.IntervalSeconds < 1 {
		c.Poll.IntervalSeconds = def.Poll.IntervalSeconds
	}
	if c.Redis.ReportTTLSeconds <= 0 {
		c.Redis.ReportTTLSeconds = def.Redis.ReportTTLSeconds
	}
	if c.Redis.RateLimit < 0 {
		c.Redis.RateLimit = 0
	}
	if c.Redis.RateWindowSeconds <= 0 {
		c.Redis.RateWindowSeconds = def.Redis.RateWindowSeconds
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = def.Storage.Bucket
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "webslayer", "config.toml"), nil
}

// Load reads configuration from the config file, creating it with defaults if
// it doesn't exist. A .env file in the working directory and environment
// variables override file values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Unmarshal over defaults so missing keys keep their default values.
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// Save writes the configuration to the config file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

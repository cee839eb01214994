package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Logger LoggerConfig `mapstructure:"logger"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Flags  FlagsConfig  `mapstructure:"flags"`
	RPC    RPCConfig    `mapstructure:"rpc"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// CacheConfig holds settings for the caching layer.
type CacheConfig struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// FlagsConfig holds settings for the feature-flag sources.
type FlagsConfig struct {
	// RemoteURL points at a remote-config JSON document; empty disables the source.
	RemoteURL string `mapstructure:"remote_url"`
	// FilePath points at a local YAML override file; empty disables the source.
	FilePath        string        `mapstructure:"file_path"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	// RetryInterval is how long the last good snapshot is served after every source failed.
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// RPCConfig holds settings for probing RPC endpoints.
type RPCConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "chain-support")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("cache.default_expiration", "5m")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("flags.remote_url", "")
	v.SetDefault("flags.file_path", "")
	v.SetDefault("flags.refresh_interval", "1m")
	v.SetDefault("flags.fetch_timeout", "10s")
	v.SetDefault("flags.retry_interval", "15s")
	v.SetDefault("rpc.timeout", "10s")
	v.SetDefault("rpc.rate_limit", 5)
	v.SetDefault("rpc.burst", 5)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Printf("Warning: Config file not found in %s or '.', using defaults/env vars\n", configPath)
	}

	v.SetEnvPrefix("CHAIN_SUPPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values that have no sensible fallback.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("config: server.port must not be empty")
	}
	switch c.Logger.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown logger.encoding %q", c.Logger.Encoding)
	}
	if c.RPC.RateLimit < 0 {
		return fmt.Errorf("config: rpc.rate_limit must not be negative, got %v", c.RPC.RateLimit)
	}
	return nil
}

func (c CacheConfig) GetDefaultExpiration() time.Duration {
	return c.DefaultExpiration
}

func (c CacheConfig) GetCleanupInterval() time.Duration {
	return c.CleanupInterval
}

func (c FlagsConfig) GetRefreshInterval() time.Duration {
	return c.RefreshInterval
}

func (c FlagsConfig) GetFetchTimeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return 10 * time.Second
	}
	return c.FetchTimeout
}

func (c FlagsConfig) GetRetryInterval() time.Duration {
	if c.RetryInterval <= 0 {
		return 15 * time.Second
	}
	return c.RetryInterval
}

func (c RPCConfig) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.Timeout
}

// Package config provides configuration management for the medtrack
// server. Configuration can be loaded from YAML files and environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	// Environment names the deployment (e.g. "production", "staging").
	// It is embedded in every store key, so multiple environments can
	// share one Redis database without collision.
	Environment string `mapstructure:"environment"`

	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Tokens    TokensConfig    `mapstructure:"tokens"`
	MedSearch MedSearchConfig `mapstructure:"medsearch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address in host:port format.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig selects the key-value store backend.
type StoreConfig struct {
	// Driver specifies the backend: "redis" or "memory".
	// The memory backend is single-process only.
	Driver string `mapstructure:"driver"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// Addr returns the Redis address in host:port format.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TokensConfig holds token lifetimes.
type TokensConfig struct {
	// ActivationTTL is the validity of account-activation tokens.
	ActivationTTL time.Duration `mapstructure:"activation_ttl"`

	// ResetTTL is the validity of password-reset tokens.
	ResetTTL time.Duration `mapstructure:"reset_ttl"`

	// SessionTTL is the validity of login sessions.
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// MedSearchConfig holds medicines-register lookup settings.
type MedSearchConfig struct {
	// Enabled determines if the register search endpoint is served.
	Enabled bool `mapstructure:"enabled"`

	// Path is the SQLite dataset file.
	Path string `mapstructure:"path"`

	// LeafletBaseURL is prefixed to leaflet filenames from the dataset.
	LeafletBaseURL string `mapstructure:"leaflet_base_url"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled determines if the metrics listener runs.
	Enabled bool `mapstructure:"enabled"`

	// Port is the port for the metrics HTTP server.
	Port int `mapstructure:"port"`

	// Path is the URL path for the metrics endpoint.
	Path string `mapstructure:"path"`
}

// Load reads configuration from the specified file and environment
// variables. Environment variables take precedence over file values
// and are prefixed with MEDTRACK_ using _ as separator.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("MEDTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/medtrack")
	}

	// Config file not found is acceptable - defaults and env vars apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	// Store defaults
	v.SetDefault("store.driver", "redis")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)

	// Token defaults
	v.SetDefault("tokens.activation_ttl", 24*time.Hour)
	v.SetDefault("tokens.reset_ttl", 1*time.Hour)
	v.SetDefault("tokens.session_ttl", 30*24*time.Hour)

	// Medicines register defaults
	v.SetDefault("medsearch.enabled", false)
	v.SetDefault("medsearch.path", "./data/medicines.db")
	v.SetDefault("medsearch.leaflet_base_url", "https://www.geneesmiddeleninformatiebank.nl/documenten/")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9091)
	v.SetDefault("metrics.path", "/metrics")
}

// Validate checks the configuration for required values and valid ranges.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if strings.Contains(c.Environment, ":") {
		return fmt.Errorf("environment must not contain ':'")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	validDrivers := map[string]bool{"redis": true, "memory": true}
	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("store.driver must be 'redis' or 'memory'")
	}
	if c.Store.Driver == "redis" && c.Redis.Host == "" {
		return fmt.Errorf("redis.host is required for redis driver")
	}

	if c.Tokens.ActivationTTL <= 0 || c.Tokens.ResetTTL <= 0 || c.Tokens.SessionTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}

	if c.MedSearch.Enabled && c.MedSearch.Path == "" {
		return fmt.Errorf("medsearch.path is required when medsearch is enabled")
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, fatal, panic")
	}

	return nil
}

// MustLoad loads configuration or panics on error.
// Useful for main function initialization.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

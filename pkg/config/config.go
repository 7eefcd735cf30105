// Package config loads staffd configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/hospital-rp/staffd/pkg/storage"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Storage storage.Config `yaml:"storage"`
	Auth    AuthConfig     `yaml:"auth"`
	Audit   AuditConfig    `yaml:"audit"`

	// Warnings before a member is removed from the roster.
	WarningThreshold int `yaml:"warning_threshold"`

	LogLevel string `yaml:"log_level"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	// MasterPassword validates the pseudo-shift shared by leadership.
	MasterPassword string `yaml:"master_password"`
}

// AuditConfig holds audit log retention settings
type AuditConfig struct {
	RetentionDays int `yaml:"retention_days"`
	// CleanupSchedule is a cron expression for the retention job.
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

// Default returns the baseline configuration before file and
// environment overrides
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: storage.DefaultConfig(),
		Auth: AuthConfig{
			MasterPassword: "admin123",
		},
		Audit: AuditConfig{
			RetentionDays:   90,
			CleanupSchedule: "0 3 * * *",
		},
		WarningThreshold: 3,
		LogLevel:         "info",
	}
}

// Load reads configuration from an optional YAML file, applies
// environment overrides, and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides config fields from STAFFD_* environment variables
func (c *Config) applyEnv() {
	c.Server.Host = getEnv("STAFFD_HOST", c.Server.Host)
	c.Server.Port = getEnv("STAFFD_PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvDuration("STAFFD_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDuration("STAFFD_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvDuration("STAFFD_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getEnvDuration("STAFFD_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Storage.Type = getEnv("STAFFD_STORAGE_TYPE", c.Storage.Type)
	c.Storage.PostgresURL = getEnv("STAFFD_POSTGRES_URL", c.Storage.PostgresURL)
	c.Storage.PostgresMaxConns = getEnvInt("STAFFD_POSTGRES_MAX_CONNS", c.Storage.PostgresMaxConns)
	c.Storage.PostgresMinConns = getEnvInt("STAFFD_POSTGRES_MIN_CONNS", c.Storage.PostgresMinConns)
	c.Storage.PostgresTimeout = getEnvDuration("STAFFD_POSTGRES_TIMEOUT", c.Storage.PostgresTimeout)
	c.Storage.RedisAddr = getEnv("STAFFD_REDIS_ADDR", c.Storage.RedisAddr)
	c.Storage.RedisPassword = getEnv("STAFFD_REDIS_PASSWORD", c.Storage.RedisPassword)
	c.Storage.RedisDB = getEnvInt("STAFFD_REDIS_DB", c.Storage.RedisDB)
	c.Storage.CacheEnabled = getEnvBool("STAFFD_CACHE_ENABLED", c.Storage.CacheEnabled)
	c.Storage.CacheTTL = getEnvDuration("STAFFD_CACHE_TTL", c.Storage.CacheTTL)
	c.Storage.L1CacheSize = getEnvInt("STAFFD_L1_CACHE_SIZE", c.Storage.L1CacheSize)

	c.Auth.MasterPassword = getEnv("STAFFD_MASTER_PASSWORD", c.Auth.MasterPassword)

	c.Audit.RetentionDays = getEnvInt("STAFFD_AUDIT_RETENTION_DAYS", c.Audit.RetentionDays)
	c.Audit.CleanupSchedule = getEnv("STAFFD_AUDIT_CLEANUP_SCHEDULE", c.Audit.CleanupSchedule)

	c.WarningThreshold = getEnvInt("STAFFD_WARNING_THRESHOLD", c.WarningThreshold)
	c.LogLevel = getEnv("STAFFD_LOG_LEVEL", c.LogLevel)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch c.Storage.Type {
	case "memory":
	case "postgres":
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("invalid storage type: %s (must be memory or postgres)", c.Storage.Type)
	}

	if c.Storage.CacheEnabled && c.Storage.RedisAddr == "" {
		return fmt.Errorf("redis address is required when the cache is enabled")
	}

	if c.Auth.MasterPassword == "" {
		return fmt.Errorf("master password is required")
	}
	if c.WarningThreshold <= 0 {
		return fmt.Errorf("warning threshold must be positive")
	}
	if c.Audit.RetentionDays < 0 {
		return fmt.Errorf("audit retention days cannot be negative")
	}

	return nil
}

// ListenAddr returns the host:port the server binds to
func (c *Config) ListenAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// LogrusLevel converts the configured log level string
func (c *Config) LogrusLevel() logrus.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

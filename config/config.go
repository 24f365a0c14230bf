// Package config has the configuration for the molecule fetch service.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port             string
	Address          string
	Env              string
	LogLevel         string
	LogRetentionDays int
	MaxRequestBody   int64 // Maximum request body size in bytes
	MaxHeaderSize    int64 // Maximum request header size in bytes
	FetchTimeout     time.Duration
	ProbeInterval    time.Duration
}

// Load loads and validates configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnvWithDefault("PORT", "8000"),
		Address:          getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:              getEnvWithDefault("ENV", "dev"),
		LogLevel:         getEnvWithDefault("LOG_LEVEL", "info"),
		LogRetentionDays: getIntEnvWithDefault("LOG_RETENTION_DAYS", 28),
		MaxRequestBody:   getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576), // 1MB default
		MaxHeaderSize:    getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),  // 1MB default
		// The hard per-fetch timeout, 10s like the upstream tooling uses
		FetchTimeout:  time.Duration(getIntEnvWithDefault("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		ProbeInterval: time.Duration(getIntEnvWithDefault("PROBE_INTERVAL_MINUTES", 15)) * time.Minute,
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SlogLevel maps the configured log level onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}
	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}
	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return err
	}
	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return err
	}
	if cfg.LogRetentionDays < 1 || cfg.LogRetentionDays > 365 {
		return fmt.Errorf("invalid LOG_RETENTION_DAYS: must be between 1 and 365, got %d", cfg.LogRetentionDays)
	}
	if cfg.FetchTimeout < time.Second || cfg.FetchTimeout > 5*time.Minute {
		return fmt.Errorf("invalid FETCH_TIMEOUT_SECONDS: must be between 1 and 300, got %s", cfg.FetchTimeout)
	}
	if cfg.ProbeInterval < time.Minute || cfg.ProbeInterval > 24*time.Hour {
		return fmt.Errorf("invalid PROBE_INTERVAL_MINUTES: must be between 1 and 1440, got %s", cfg.ProbeInterval)
	}
	return nil
}

func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	if !ip.IsLoopback() && !ip.IsPrivate() {
		return fmt.Errorf("ADDRESS %s is a public IP, use private network ranges and a reverse proxy", address)
	}

	return nil
}

func validateEnv(env string) error {
	validEnvs := []string{"dev", "staging", "prod", "test"}
	env = strings.ToLower(env)

	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

func validateLogLevel(logLevel string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

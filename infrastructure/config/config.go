package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all client configuration. Values come from an optional YAML
// file overridden by environment variables.
type Config struct {
	// Remote API
	APIBaseURL     string        `yaml:"api_base_url" validate:"required,url"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`

	// Environment
	Environment string `yaml:"environment" validate:"oneof=development production"`
	LogLevel    string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Local storage; empty means in-memory only (nothing survives restart)
	StoragePath string `yaml:"storage_path"`

	// Search behavior
	SearchDebounceMS int `yaml:"search_debounce_ms" validate:"gte=0"`
	SearchMaxResults int `yaml:"search_max_results" validate:"gt=0"`

	// Connectivity probing
	ProbeIntervalSeconds int `yaml:"probe_interval_seconds" validate:"gt=0"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
}

// LoadConfig loads configuration: defaults, then the YAML file named by
// WAYFIND_CONFIG (if set), then environment variable overrides.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		APIBaseURL:           "http://localhost:8080",
		RequestTimeout:       10 * time.Second,
		Environment:          "development",
		LogLevel:             "info",
		StoragePath:          "",
		SearchDebounceMS:     300,
		SearchMaxResults:     50,
		ProbeIntervalSeconds: 15,
		EnableMetrics:        false,
	}

	if path := os.Getenv("WAYFIND_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile merges a YAML config file into cfg.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides config fields from environment variables.
func (c *Config) applyEnv() {
	c.APIBaseURL = getEnv("WAYFIND_API_URL", c.APIBaseURL)
	c.Environment = getEnv("WAYFIND_ENV", c.Environment)
	c.LogLevel = getEnv("WAYFIND_LOG_LEVEL", c.LogLevel)
	c.StoragePath = getEnv("WAYFIND_STORAGE_PATH", c.StoragePath)
	c.SearchDebounceMS = getEnvInt("WAYFIND_SEARCH_DEBOUNCE_MS", c.SearchDebounceMS)
	c.SearchMaxResults = getEnvInt("WAYFIND_SEARCH_MAX_RESULTS", c.SearchMaxResults)
	c.ProbeIntervalSeconds = getEnvInt("WAYFIND_PROBE_INTERVAL", c.ProbeIntervalSeconds)
	c.EnableMetrics = getEnvBool("WAYFIND_ENABLE_METRICS", c.EnableMetrics)

	if seconds := getEnvInt("WAYFIND_REQUEST_TIMEOUT", 0); seconds > 0 {
		c.RequestTimeout = time.Duration(seconds) * time.Second
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// SearchDebounce returns the debounce as a duration.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// ProbeInterval returns the probe interval as a duration.
func (c *Config) ProbeInterval() time.Duration {
	return time.Duration(c.ProbeIntervalSeconds) * time.Second
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

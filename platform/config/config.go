// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetAllowedOrigins() []string
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// AuthConfig provides the shared API key. An empty key is allowed at load
// time; protected routes then answer 500 until it is configured.
type AuthConfig interface {
	GetAPIKey() string
}

// SchedulerConfig provides Redis/asynq settings for async batch rescoring.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// CalendarConfig provides the time zone used to decide what "today" means.
type CalendarConfig interface {
	GetLocation() *time.Location
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	APIKey           string
	AllowedOrigins   []string
	RateLimitRPS     float64
	RateLimitBurst   int
	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int
	Location         *time.Location
}

// =============================================================================
// Interface Implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetHTTPAddr() string         { return c.HTTPAddr }
func (c *Config) GetAllowedOrigins() []string { return c.AllowedOrigins }
func (c *Config) GetRateLimitRPS() float64    { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int      { return c.RateLimitBurst }

func (c *Config) GetAPIKey() string { return c.APIKey }

func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) IsSchedulerEnabled() bool  { return c.RedisURL != "" }

func (c *Config) GetLocation() *time.Location { return c.Location }

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() (*Config, error) {
	loc, err := parseLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", "127.0.0.1:"+getEnv("PORT", "3030")),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		APIKey:           strings.TrimSpace(getEnv("API_KEY", "")),
		AllowedOrigins:   splitCSV(getEnv("ALLOWED_ORIGINS", "http://127.0.0.1:5173,http://localhost:5173")),
		RateLimitRPS:     mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:   mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "2")),
		Location:         loc,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if containsWildcard(cfg.AllowedOrigins) {
		return nil, fmt.Errorf("ALLOWED_ORIGINS cannot contain a wildcard; allow-listed origins bypass the API key")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func parseLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

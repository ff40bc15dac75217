package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env            string
	Port           string
	DatabaseURL    string
	JWTSecret      string
	RedisURL       string
	FrontendURL    string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration
	CartCacheTTL   time.Duration
	RateLimit      RateLimitConfig
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func LoadEnv() error {
	// Try to load .env file if it exists (for local development).
	// In production the variables are set directly on the process.
	_ = godotenv.Load()
	return nil
}

// Load reads the configuration from the process environment, falling back to defaults.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("CART_CACHE_TTL", "15m")
	v.SetDefault("RATE_LIMIT_REQUESTS", 120)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")

	return &Config{
		Env:            v.GetString("APP_ENV"),
		Port:           v.GetString("PORT"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		RedisURL:       v.GetString("REDIS_URL"),
		FrontendURL:    v.GetString("FRONTEND_URL"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		CartCacheTTL:   v.GetDuration("CART_CACHE_TTL"),
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
	}
}

// Validate checks that critical settings are present.
// Non-critical gaps are returned as warnings for the caller to log.
func (c *Config) Validate() (warnings []string, err error) {
	var missing []string

	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("critical environment variables not set: %v", missing)
	}

	if c.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}

	if c.RedisURL == "" {
		warnings = append(warnings, "REDIS_URL not set - cart snapshots will not be cached")
	}
	if c.FrontendURL == "" {
		warnings = append(warnings, "FRONTEND_URL not set - CORS defaults to http://localhost:3000")
	}

	return warnings, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

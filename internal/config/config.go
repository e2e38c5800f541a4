package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Generation backend
	CreativeAPIBaseURL string
	CreativeAPITimeout time.Duration

	// Auth
	JWTSecret string

	// Job history (optional)
	DatabaseURL string

	// Snapshot cache (optional)
	RedisURL string

	// Realtime progress (optional pair)
	SupabaseURL string
	SupabaseKey string

	// Polling
	PollInterval      time.Duration
	PollErrorInterval time.Duration
	PollMaxWait       time.Duration
	PollMaxErrors     int

	// Editing
	DisplayWidth float64

	// Server
	Port        string
	Environment string
	BaseURL     string
}

// Load reads the configuration from the environment, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		CreativeAPIBaseURL: getEnv("CREATIVE_API_BASE_URL", "http://localhost:8000"),
		JWTSecret:          getEnv("JWT_SECRET", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		SupabaseURL: getEnv("SUPABASE_URL", ""),
		SupabaseKey: getEnv("SUPABASE_KEY", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	var err error
	if cfg.CreativeAPITimeout, err = getDuration("CREATIVE_API_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = getDuration("POLL_INTERVAL", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.PollErrorInterval, err = getDuration("POLL_ERROR_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.PollMaxWait, err = getDuration("POLL_MAX_WAIT", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.PollMaxErrors, err = getInt("POLL_MAX_ERRORS", 0); err != nil {
		return nil, err
	}
	if cfg.DisplayWidth, err = getFloat("DISPLAY_WIDTH", 600); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CreativeAPIBaseURL == "" {
		return fmt.Errorf("CREATIVE_API_BASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if (c.SupabaseURL == "") != (c.SupabaseKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY must be set together")
	}
	if c.PollInterval <= 0 || c.PollErrorInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL and POLL_ERROR_INTERVAL must be positive")
	}
	if c.PollMaxWait < 0 || c.PollMaxErrors < 0 {
		return fmt.Errorf("POLL_MAX_WAIT and POLL_MAX_ERRORS must not be negative")
	}
	if c.DisplayWidth <= 0 {
		return fmt.Errorf("DISPLAY_WIDTH must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q: %w", key, value, err)
	}
	return f, nil
}

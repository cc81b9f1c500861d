package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP server configuration
	ListenAddr string

	// Session configuration
	SessionSecret   string
	SessionTTLHours int // magic-link session lifetime

	// Invite configuration
	InviteTTLHours int // invite token lifetime

	// Event defaults
	DefaultCurrency string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// Load .env if present; missing file is not an error
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		ListenAddr: getEnvDefault("HTTP_LISTEN_ADDR", ":8080"),

		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionTTLHours: 2,

		InviteTTLHours: 168, // 7 days

		DefaultCurrency: getEnvDefault("DEFAULT_CURRENCY", "AUD"),

		Environment: getEnvDefault("ENVIRONMENT", "development"),
	}

	if ttl := os.Getenv("SESSION_TTL_HOURS"); ttl != "" {
		if parsed, err := strconv.Atoi(ttl); err == nil {
			config.SessionTTLHours = parsed
		}
	}
	if ttl := os.Getenv("INVITE_TTL_HOURS"); ttl != "" {
		if parsed, err := strconv.Atoi(ttl); err == nil {
			config.InviteTTLHours = parsed
		}
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.SessionSecret == "" {
			return nil, fmt.Errorf("SESSION_SECRET is required")
		}
	}

	return config, nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

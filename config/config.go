package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API      APIConfig
	State    StateConfig
	Logging  LoggingConfig
	DemoMode bool
}

type APIConfig struct {
	// BaseURL is the root of the remote storefront API, including the
	// /api/v1 prefix.
	BaseURL string
	Timeout time.Duration
}

type StateConfig struct {
	// Dir holds the persisted key-value store (cart snapshot, auth token,
	// cached profile). Defaults to ~/.storefront.
	Dir string
}

type LoggingConfig struct {
	Level  string
	Format string // json, console
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		API: APIConfig{
			BaseURL: getEnv("STOREFRONT_API_URL", "https://businessapi.pokargreens.com/api/v1"),
			Timeout: parseDuration(getEnv("STOREFRONT_API_TIMEOUT", "30s")),
		},
		State: StateConfig{
			Dir: getEnv("STOREFRONT_STATE_DIR", defaultStateDir()),
		},
		Logging: LoggingConfig{
			Level:  getEnv("STOREFRONT_LOG_LEVEL", "info"),
			Format: getEnv("STOREFRONT_LOG_FORMAT", "console"),
		},
		DemoMode: getEnv("STOREFRONT_DEMO_MODE", "false") == "true",
	}

	return config, nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(home, ".storefront")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default 30s", s)
		return 30 * time.Second
	}
	return duration
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	SecretKey      string
	Port           string
	PageLimit      int
}

// Load reads configuration from the environment. DATABASE_URL and
// SECRET_KEY are required; the rest have defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseDriver: "postgres",
		Port:           "8080",
		PageLimit:      10,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	cfg.SecretKey = os.Getenv("SECRET_KEY")
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY not set")
	}

	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		cfg.DatabaseDriver = driver
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if limit := os.Getenv("PAGE_LIMIT"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid PAGE_LIMIT %q", limit)
		}
		cfg.PageLimit = n
	}

	return cfg, nil
}

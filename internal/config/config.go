package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                    string
	DBPath                  string
	LogLevel                string
	StorageQuotaKB          int
	StorageWarnKB           int
	HousekeepingIntervalMin int
	SessionMaxAgeHours      int
	GeminiAPIKey            string
	GeminiModel             string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                    envOr("ADDR", ":8080"),
		DBPath:                  envOr("DB_PATH", "file:leitbox.db"),
		LogLevel:                envOr("LOG_LEVEL", "INFO"),
		StorageQuotaKB:          envIntOr("STORAGE_QUOTA_KB", 5120),
		StorageWarnKB:           envIntOr("STORAGE_WARN_KB", 4000),
		HousekeepingIntervalMin: envIntOr("HOUSEKEEPING_INTERVAL_MINUTES", 60),
		SessionMaxAgeHours:      envIntOr("SESSION_MAX_AGE_HOURS", 12),
		GeminiAPIKey:            envOr("GEMINI_API_KEY", ""),
		GeminiModel:             envOr("GEMINI_MODEL", "gemini-2.0-flash"),
	}
}

// Validate checks the loaded configuration for values the server cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.StorageQuotaKB <= 0 {
		return fmt.Errorf("STORAGE_QUOTA_KB must be positive")
	}
	if c.StorageWarnKB <= 0 {
		return fmt.Errorf("STORAGE_WARN_KB must be positive")
	}
	if c.StorageWarnKB > c.StorageQuotaKB {
		return fmt.Errorf("STORAGE_WARN_KB must not exceed STORAGE_QUOTA_KB")
	}
	if c.HousekeepingIntervalMin <= 0 {
		return fmt.Errorf("HOUSEKEEPING_INTERVAL_MINUTES must be positive")
	}
	if c.SessionMaxAgeHours <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE_HOURS must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

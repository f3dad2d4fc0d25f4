package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartinvoice/smartinvoice/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port      string
	StaticDir string

	// Storage settings
	StoreDriver string // memory, sqlite or postgres
	DatabaseURL string
	SQLitePath  string

	// Redis settings; rate limiting is off when empty
	RedisURL string

	// Security settings
	JWTSecret string
	TokenTTL  time.Duration

	// Totals
	VATRate decimal.Decimal

	// Rate limiting per owner
	RateLimitDaily   int
	RateLimitMonthly int

	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		StaticDir:   os.Getenv("STATIC_DIR"),
		StoreDriver: getEnv("STORE_DRIVER", "sqlite"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "./data/smartinvoice.db"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitDaily, err = getInt("RATE_LIMIT_DAILY", 1000); err != nil {
		return nil, err
	}
	if cfg.RateLimitMonthly, err = getInt("RATE_LIMIT_MONTHLY", 20000); err != nil {
		return nil, err
	}

	cfg.VATRate = domain.DefaultVATRate
	if v := os.Getenv("VAT_RATE"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil || rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("VAT_RATE must be a fraction between 0 and 1, got %q", v)
		}
		cfg.VATRate = rate
	}

	// Validate required settings
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	switch cfg.StoreDriver {
	case "memory", "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for the postgres store")
		}
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be memory, sqlite or postgres, got %q", cfg.StoreDriver)
	}

	return cfg, nil
}

// StoreDSN returns the connection string for the configured store driver
func (c *Config) StoreDSN() string {
	switch c.StoreDriver {
	case "postgres":
		return c.DatabaseURL
	case "sqlite":
		return c.SQLitePath
	default:
		return ""
	}
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 1h, got %q", key, value)
	}
	return d, nil
}

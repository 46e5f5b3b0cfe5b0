// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration knobs for the HTTP server and its collaborators.
type Config struct {
	Env             string
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogLevel        string

	DatabaseURL      string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	DatasetFile    string
	PricingURL     string
	PricingTimeout time.Duration

	CurrencySymbol string
	CurrencyCode   string

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// LoadDotEnv loads a .env file outside production. A missing file is not an
// error: variables may be set directly.
func LoadDotEnv(path string) error {
	if os.Getenv("ENV") == "production" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		Env:              getenv("ENV", "development"),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:  durenvs("SHUTDOWN_TIMEOUT", 15),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		DatabaseURL:      getenv("DATABASE_URL", ""),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getenv("POSTGRES_PORT", "5432"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getenv("POSTGRES_DB", "pricing"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
		DatasetFile:      getenv("DATASET_FILE", ""),
		PricingURL:       getenv("PRICING_URL", ""),
		PricingTimeout:   durenvms("PRICING_TIMEOUT_MS", 5000),
		CurrencySymbol:   getenv("CURRENCY_SYMBOL", "£"),
		CurrencyCode:     getenv("CURRENCY_CODE", "GBP"),

		SessionTTL:           durenvs("SESSION_TTL", 1800),
		SessionSweepInterval: durenvs("SESSION_SWEEP_INTERVAL", 60),
	}
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the
// POSTGRES_* settings.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode)
}

// Package config loads runtime configuration from an optional .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pfrederiksen/unisport/internal/logger"
	"github.com/pfrederiksen/unisport/internal/source"
)

const PROD_STRING = "prod"

// Cache backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	HTTPAddr     string

	CoursesURL   string
	LocationsURL string
	HTTPTimeout  time.Duration

	CacheBackend string
	DataDir      string
	DBDSN        string
	CacheTTL     time.Duration

	PageSize       int
	ReloadInterval time.Duration

	LogLevel logger.Level
}

// Load loads configuration from .env files (optional, default ".env") and
// environment variables. Variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{}
	var err error

	// Application environment (default: dev)
	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING
	cfg.ProdOrigins = splitList(getEnv("PROD_ORIGINS", ""))
	if cfg.IsProduction && len(cfg.ProdOrigins) == 0 {
		return nil, fmt.Errorf("PROD_ORIGINS is required when APP_ENV=%s", PROD_STRING)
	}

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.CoursesURL = getEnv("UNISPORT_COURSES_URL", source.CoursesURL)
	cfg.LocationsURL = getEnv("UNISPORT_LOCATIONS_URL", source.LocationsURL)
	if cfg.HTTPTimeout, err = getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	cfg.CacheBackend = getEnv("CACHE_BACKEND", BackendFile)
	switch cfg.CacheBackend {
	case BackendFile:
	case BackendPostgres:
		// Database DSN is required for the postgres backend
		cfg.DBDSN = os.Getenv("DB_DSN")
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required when CACHE_BACKEND=%s", BackendPostgres)
		}
	default:
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q: want %s or %s", cfg.CacheBackend, BackendFile, BackendPostgres)
	}
	cfg.DataDir = getEnv("DATA_DIR", "~/.local/share/unisport")

	if cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	// Page size for course listings (default: 50)
	cfg.PageSize, err = getEnvAsInt("PAGE_SIZE", 50)
	if err != nil {
		return nil, fmt.Errorf("invalid PAGE_SIZE: %w", err)
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("invalid PAGE_SIZE: must be positive, got %d", cfg.PageSize)
	}

	if cfg.ReloadInterval, err = getEnvAsDuration("RELOAD_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	if cfg.LogLevel, err = logger.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration parses durations like "15m" or "24h". Zero and negative
// values are rejected.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %s", key, val)
	}

	return val, nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

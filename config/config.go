package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Port           int
	StoreDriver    string
	SQLitePath     string
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	RedisPassword  string
	CacheTTL       time.Duration
	APIURL         string
	RequestTimeout time.Duration
	Location       *time.Location
	LogLevel       string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		StoreDriver:   getEnv("STORE_DRIVER", DriverSQLite),
		SQLitePath:    getEnv("SQLITE_PATH", "./data/recordbook.db"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "recordbook"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		APIURL:        getEnv("API_URL", "http://localhost:8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.Port, err = getEnvAsInt("PORT", 8080)
	if err != nil {
		return nil, err
	}

	cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.RequestTimeout, err = getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	tz := getEnv("TIMEZONE", "America/Bahia")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid value for TIMEZONE: %w", err)
	}

	switch cfg.StoreDriver {
	case DriverSQLite:
	case DriverMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI environment variable is not set")
		}
	default:
		return nil, fmt.Errorf("invalid value for STORE_DRIVER: expected %q or %q, got '%s'", DriverSQLite, DriverMongo, cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid value for %s: expected a positive duration, got '%s'", key, valueStr)
	}

	return value, nil
}

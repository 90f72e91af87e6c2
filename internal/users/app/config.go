package app

import (
	"os"
	"strconv"
	"time"

	"github.com/pillarhq/userd/pkg/jwtx"
)

type Config struct {
	SecretKey string // JWT signing secret. Required in prod; generated in dev if unset.
	Algorithm string // Optional: JWT signing algorithm (HS256, HS384, HS512) (default: HS256)
	Issuer    string // Optional: issuer claim for tokens (default: userd)
	AccessTTL time.Duration // Optional: access token lifetime (default: 30m)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./users.db)
	PepperFile          string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	StatsInterval       time.Duration // Gauge refresh interval (default: 1m)
}

func LoadConfig() Config {
	cfg := Config{
		SecretKey:           os.Getenv("SECRET_KEY"),
		Algorithm:           getEnvOrDefault("ALGORITHM", "HS256"),
		Issuer:              getEnvOrDefault("ISSUER", "userd"),
		AccessTTL:           getEnvMinutesOrDefault("ACCESS_TOKEN_EXPIRE_MINUTES", jwtx.DefaultAccessTokenTTL),
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "users.db"),
		PepperFile:          getEnvOrDefault("PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		StatsInterval:       getEnvDurationOrDefault("STATS_INTERVAL", time.Minute),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvMinutesOrDefault parses the value as integer minutes, matching the
// conventional ACCESS_TOKEN_EXPIRE_MINUTES unit.
func getEnvMinutesOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if minutes, err := strconv.Atoi(value); err == nil && minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

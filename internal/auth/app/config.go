package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/Zenith-hasan/Spark/pkg/jwtx"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer       string        // Issuer claim for access tokens (default: spark-auth)
	JWTSecret    string        // HS256 signing secret; required outside dev
	AccessTTL    time.Duration // Access token lifetime (default: 120m)
	RefreshTTL   time.Duration // Refresh token lifetime (default: 168h)
	DatabaseFile string        // Path to SQLite database file (default: ./auth.db)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// ErrMissingSecret is returned outside dev when AUTH_JWT_SECRET is unset.
// There is deliberately no hardcoded fallback: a known default secret would
// let anyone mint valid tokens.
var ErrMissingSecret = errors.New("app: AUTH_JWT_SECRET is required outside dev")

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// win over the file.
func LoadConfig() (Config, error) {
	_ = godotenv.Load() // missing file is fine

	cfg := Config{
		Issuer:               getEnvOrDefault("AUTH_ISSUER", "spark-auth"),
		JWTSecret:            os.Getenv("AUTH_JWT_SECRET"),
		AccessTTL:            getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:           getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if cfg.JWTSecret == "" && cfg.Env != "dev" {
		return Config{}, ErrMissingSecret
	}

	return cfg, nil
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

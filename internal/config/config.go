package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session storage backends.
const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

// Config holds all application configuration for the portal client and the
// development backend.
type Config struct {
	// Portal client.
	APIURL         string
	StateDir       string
	SessionBackend string
	RequestTimeout time.Duration // Zero disables the client-side timeout.

	// Shared.
	RedisURL  string
	LogLevel  string
	LogFormat string

	// Development backend.
	ServerPort        string
	GinMode           string
	JWTSecret         string
	JWTExpiry         time.Duration
	BcryptCost        int
	AuthRatePerMinute int
	// AllowedOrigins controls CORS on the development backend.
	// Empty slice means all origins are permitted.
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIURL:            getEnv("PORTAL_API_URL", "http://localhost:8080/api"),
		StateDir:          getEnv("PORTAL_STATE_DIR", defaultStateDir()),
		SessionBackend:    strings.ToLower(getEnv("PORTAL_SESSION_BACKEND", SessionBackendFile)),
		RequestTimeout:    time.Duration(getEnvInt("PORTAL_REQUEST_TIMEOUT_SECONDS", 0)) * time.Second,
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "pretty"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		JWTSecret:         getEnv("JWT_SECRET", "change-this-to-a-secure-random-string"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		BcryptCost:        getEnvInt("BCRYPT_COST", 6),
		AuthRatePerMinute: getEnvInt("AUTH_RATE_PER_MINUTE", 30),
		AllowedOrigins:    parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// defaultStateDir returns ~/.nsda, or a relative .nsda when the home
// directory cannot be resolved.
func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nsda"
	}
	return filepath.Join(home, ".nsda")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

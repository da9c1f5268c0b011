package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Banking backend
	BackendURL string

	// Observability
	OTLPEndpoint   string
	TracingEnabled bool

	// Session store
	SessionBackend string // memory or redis
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	CookieSecure   bool
}

// Session backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// LoadDotEnv loads a .env file into the environment without overriding
// variables that are already set. A missing file is reported to the caller,
// which may ignore it.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	cfg := &Config{
		Port:     getEnvInt("PORT", 4200),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BackendURL: getEnv("BACKEND_URL", "http://localhost:8080"),

		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),

		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", SessionMemory)),
		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		CookieSecure:   getEnvBool("COOKIE_SECURE", false),
	}
	if cfg.SessionBackend != SessionRedis {
		cfg.SessionBackend = SessionMemory
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds storefront configuration loaded from environment variables.
// Defaults are tuned for local development.
type Config struct {
	ServiceName string
	Environment string // development, staging, production
	LogLevel    string
	HTTPPort    string

	// Tracing
	TracingEnabled bool
	JaegerEndpoint string

	// Kafka
	KafkaEnabled bool
	KafkaBrokers []string

	// Session holder
	SessionBackend string // memory, redis
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SessionTTL     time.Duration

	// Tokens; a token lives as long as its session
	JWTSecret string

	// Seed data; empty means the embedded default catalog
	SeedFile string

	LowStockThreshold int
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads an optional .env file and then the process environment
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Warn().Err(err).Msg("failed to load .env file")
		}
	}

	return &Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "storefront"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),

		TracingEnabled: getBool("TRACING_ENABLED", false),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),

		KafkaEnabled: getBool("KAFKA_ENABLED", false),
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getInt("REDIS_DB", 0),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),

		JWTSecret: getEnv("JWT_SECRET", "dev-storefront-secret"),

		SeedFile: getEnv("SEED_FILE", ""),

		LowStockThreshold: getInt("LOW_STOCK_THRESHOLD", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Bool("default", defaultValue).Msg("invalid boolean, using default")
			return defaultValue
		}
		return b
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Int("default", defaultValue).Msg("invalid int, using default")
			return defaultValue
		}
		return i
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Dur("default", defaultValue).Msg("invalid duration, using default")
			return defaultValue
		}
		return d
	}
	return defaultValue
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}

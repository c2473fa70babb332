package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration. Empty PostgresURL, RedisURL,
// or KafkaBrokers select the in-memory / no-op fallbacks so the server runs
// standalone in development and tests.
type Config struct {
	Addr        string
	MetricsAddr string

	PostgresURL  string
	RedisURL     string
	KafkaBrokers []string

	JWTSigningKey string
	SessionTTL    time.Duration
	CartTTL       time.Duration

	// LegacyPartialCheckout re-enables the historical checkout behavior where
	// lines already applied before an out-of-stock line are not rolled back.
	LegacyPartialCheckout bool
}

// RedisConfig carries connection tuning for the Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Redis derives a RedisConfig with defaults suitable for this service.
func (c Config) Redis() RedisConfig {
	return RedisConfig{
		URL:          c.RedisURL,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:                  envOr("SHOPSTREAM_ADDR", ":8080"),
		MetricsAddr:           envOr("SHOPSTREAM_METRICS_ADDR", ":9090"),
		PostgresURL:           os.Getenv("SHOPSTREAM_POSTGRES_URL"),
		RedisURL:              os.Getenv("SHOPSTREAM_REDIS_URL"),
		JWTSigningKey:         envOr("SHOPSTREAM_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SessionTTL:            envDurationOr("SHOPSTREAM_SESSION_TTL", 24*time.Hour),
		CartTTL:               envDurationOr("SHOPSTREAM_CART_TTL", 24*time.Hour),
		LegacyPartialCheckout: envBool("SHOPSTREAM_LEGACY_PARTIAL_CHECKOUT"),
	}
	if brokers := os.Getenv("SHOPSTREAM_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

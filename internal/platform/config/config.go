// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "darksecrets/pkg/platform/strings"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr        string
	MetricsAddr string

	// DatabaseURL selects the postgres store; empty falls back to the
	// in-memory store.
	DatabaseURL string

	Redis RedisConfig

	// KafkaBrokers enables the analytics recorder; empty disables it.
	KafkaBrokers []string
	KafkaTopic   string

	// OriginHashSecret keys the HMAC that pseudonymizes client origins.
	OriginHashSecret string

	WriteLimit  int
	WriteWindow time.Duration

	SeedDemoData bool

	ShutdownTimeout time.Duration
}

// RedisConfig holds connection settings for the rate limiter backend.
type RedisConfig struct {
	// URL selects the redis limiter store; empty falls back to in-memory
	// fixed windows.
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:        envOr("DARKSECRETS_ADDR", ":8080"),
		MetricsAddr: envOr("DARKSECRETS_METRICS_ADDR", ":9090"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		KafkaBrokers:     splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:       envOr("KAFKA_ANALYTICS_TOPIC", "darksecrets.analytics"),
		OriginHashSecret: envOr("ORIGIN_HASH_SECRET", "dev-origin-secret-change-in-production"),
		WriteLimit:       envIntOr("WRITE_RATE_LIMIT", 10),
		WriteWindow:      envDurationOr("WRITE_RATE_WINDOW", time.Minute),
		SeedDemoData:     os.Getenv("SEED_DEMO_DATA") == "true",
		ShutdownTimeout:  envDurationOr("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	out := platformstrings.DedupeAndTrim(strings.Split(v, ","))
	if len(out) == 0 {
		return nil
	}
	return out
}

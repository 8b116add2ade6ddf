package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port          string
	Environment   string
	LogLevel      slog.Level
	RedisURL      string
	DataDir       string
	ContentRating string
	HistoryLimit  int
	SessionTTL    time.Duration

	// RandomSeed makes every expansion reproducible when set.
	RandomSeed *uint64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		ContentRating: getEnv("CONTENT_RATING", "PG13"),
	}

	limit, err := strconv.Atoi(getEnv("HISTORY_LIMIT", "50"))
	if err != nil || limit < 1 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be a positive integer, got %q", os.Getenv("HISTORY_LIMIT"))
	}
	cfg.HistoryLimit = limit

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be a positive duration, got %q", os.Getenv("SESSION_TTL"))
	}
	cfg.SessionTTL = ttl

	if raw := os.Getenv("RANDOM_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("RANDOM_SEED must be an unsigned integer: %w", err)
		}
		cfg.RandomSeed = &seed
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

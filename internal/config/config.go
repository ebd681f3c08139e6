// Package config reads service settings from the environment.
// Call godotenv.Load before Load so that a local .env file is honoured.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	SeedPath    string
	CacheTTL    time.Duration
	RateLimit   float64
	RateBurst   int
	MaxTrips    int
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func Load() (Config, error) {
	cfg := Config{
		Port:        Get("PORT", "8080"),
		DatabaseURL: Get("DATABASE_URL", ""),
		RedisURL:    Get("REDIS_URL", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/network.json"),
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(Get("CACHE_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("load config: CACHE_TTL: %w", err)
	}
	if cfg.RateLimit, err = strconv.ParseFloat(Get("RATE_LIMIT_RPS", "5"), 64); err != nil {
		return Config{}, fmt.Errorf("load config: RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateBurst, err = strconv.Atoi(Get("RATE_LIMIT_BURST", "10")); err != nil {
		return Config{}, fmt.Errorf("load config: RATE_LIMIT_BURST: %w", err)
	}
	if cfg.MaxTrips, err = strconv.Atoi(Get("MAX_TRIPS_PER_VEHICLE", "50")); err != nil {
		return Config{}, fmt.Errorf("load config: MAX_TRIPS_PER_VEHICLE: %w", err)
	}
	if cfg.MaxTrips <= 0 {
		return Config{}, fmt.Errorf("load config: MAX_TRIPS_PER_VEHICLE must be positive, got %d", cfg.MaxTrips)
	}

	return cfg, nil
}

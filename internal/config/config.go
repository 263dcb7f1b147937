// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Port int

	TMDBAPIKey       string
	TMDBBaseURL      string
	TMDBImageBaseURL string
	TMDBRPS          float64

	AssetsDir string

	SessionBackend  string
	SessionCapacity int
	SessionTTL      time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	FetchTimeout time.Duration

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:             envInt("PORT", 8080),
		TMDBAPIKey:       env("TMDB_API_KEY", ""),
		TMDBBaseURL:      env("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBImageBaseURL: env("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
		TMDBRPS:          envFloat("TMDB_RPS", 40),
		AssetsDir:        env("ASSETS_DIR", "public/assets"),
		SessionBackend:   strings.ToLower(env("SESSION_BACKEND", BackendMemory)),
		SessionCapacity:  envInt("SESSION_CAPACITY", 100),
		SessionTTL:       envDuration("SESSION_TTL", 6*time.Hour),
		RedisAddr:        env("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    env("REDIS_PASSWORD", ""),
		RedisDB:          envInt("REDIS_DB", 0),
		FetchTimeout:     envDuration("FETCH_TIMEOUT", 12*time.Second),
		RateLimitEnabled: envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRPS:     envFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst:   envInt("RATE_LIMIT_BURST", 4),
		LogLevel:         strings.ToLower(env("LOG_LEVEL", "info")),
	}
}

// Error lists every invalid setting found by Validate.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

// Validate reports all unusable values at once. A missing TMDB key is not an
// error here; lookups fail with their own error instead.
func (c *Config) Validate() error {
	var p []string
	if c.Port <= 0 || c.Port > 65535 {
		p = append(p, fmt.Sprintf("PORT %d out of range", c.Port))
	}
	if c.TMDBRPS <= 0 {
		p = append(p, "TMDB_RPS must be positive")
	}
	switch c.SessionBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			p = append(p, "REDIS_ADDR is required for the redis backend")
		}
	default:
		p = append(p, fmt.Sprintf("unknown SESSION_BACKEND %q", c.SessionBackend))
	}
	if c.SessionCapacity <= 0 {
		p = append(p, "SESSION_CAPACITY must be positive")
	}
	if c.FetchTimeout <= 0 {
		p = append(p, "FETCH_TIMEOUT must be positive")
	}
	if c.RateLimitEnabled && (c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0) {
		p = append(p, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if len(p) > 0 {
		return &Error{Problems: p}
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

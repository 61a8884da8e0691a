package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	errInvalidPort       = errors.New("config: invalid PORT number")
	errInvalidBackendURL = errors.New("config: BACKEND_URL must be an absolute http(s) URL")
	errNonPositive       = errors.New("config: value must be positive")
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port             string
	LogLevel         string
	BackendURL       string
	BackendTimeout   time.Duration
	BackendRateLimit int
	RedisURL         string
	SessionTTL       time.Duration
	ShutdownGrace    time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory, when present, seeds variables that
// are not already set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "ERROR"),
		BackendURL:       getEnv("BACKEND_URL", "http://localhost:5000"),
		BackendTimeout:   getEnvAsDuration("BACKEND_TIMEOUT", 300*time.Second),
		BackendRateLimit: getEnvAsInt("BACKEND_RATE_LIMIT", 2),
		RedisURL:         getEnv("REDIS_URL", ""),
		SessionTTL:       getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		ShutdownGrace:    getEnvAsDuration("SHUTDOWN_GRACE", 10*time.Second),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", errInvalidBackendURL, c.BackendURL)
	}

	if c.BackendRateLimit < 1 {
		return fmt.Errorf("%w: BACKEND_RATE_LIMIT got %d", errNonPositive, c.BackendRateLimit)
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("%w: BACKEND_TIMEOUT got %s", errNonPositive, c.BackendTimeout)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL got %s", errNonPositive, c.SessionTTL)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return v
}

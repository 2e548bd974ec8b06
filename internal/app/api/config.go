package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
)

const defaultUserCacheTTL = 10 * time.Minute

// Config carries environment-driven settings for the API and worker processes.
// A .env file is loaded by the binaries through godotenv/autoload; real
// environment variables take precedence.
type Config struct {
	Port            string
	PostgresDSN     string
	Redis           RedisConfig
	UserCacheTTL    time.Duration
	Temporal        TemporalConfig
	ShutdownTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type TemporalConfig struct {
	Address   string
	Namespace string
	Disabled  bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:        envDefault("PORT", "8080"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		UserCacheTTL: defaultUserCacheTTL,
		Temporal: TemporalConfig{
			Address:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
			Namespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
			Disabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		},
		ShutdownTimeout: 10 * time.Second,
	}

	var errs []error
	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		errs = append(errs, fmt.Errorf("PORT must be a TCP port number, got %q", cfg.Port))
	}
	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			errs = append(errs, errors.New("REDIS_DB must be a non-negative integer"))
		}
		cfg.Redis.DB = db
	}
	if raw := strings.TrimSpace(os.Getenv("USER_CACHE_TTL_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			errs = append(errs, errors.New("USER_CACHE_TTL_SECONDS must be a positive integer"))
		}
		cfg.UserCacheTTL = time.Duration(seconds) * time.Second
	}
	if raw := strings.TrimSpace(os.Getenv("SHUTDOWN_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be a positive integer"))
		}
		cfg.ShutdownTimeout = time.Duration(seconds) * time.Second
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

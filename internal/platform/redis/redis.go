package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/extra/redisotel"
	goredis "github.com/go-redis/redis/v8"
)

// Options describes how to reach the Redis server.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect creates a Redis client and verifies connectivity with PING. Commands
// issued after the ping are traced.
func Connect(ctx context.Context, opts Options) (*goredis.Client, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	client.AddHook(redisotel.TracingHook{})
	return client, nil
}

// ConnectOrFallback mirrors postgres.ConnectOrFallback: it returns nil and a no-op
// cleanup when Redis is not configured or unreachable.
func ConnectOrFallback(ctx context.Context, opts Options, logger *slog.Logger) (*goredis.Client, func()) {
	if strings.TrimSpace(opts.Addr) == "" {
		if logger != nil {
			logger.Warn("REDIS_ADDR not set, falling back to in-memory cache")
		}
		return nil, func() {}
	}
	client, err := Connect(ctx, opts)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to redis, falling back to in-memory cache", slog.String("addr", opts.Addr), slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established", slog.String("addr", opts.Addr))
	}
	return client, func() { _ = client.Close() }
}

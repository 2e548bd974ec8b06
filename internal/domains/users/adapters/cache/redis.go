package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
)

var _ ports.Cache = (*RedisCache)(nil)

const defaultKeyPrefix = "user"

// RedisCache stores users as JSON documents under "<prefix>:<id>".
type RedisCache struct {
	client goredis.Cmdable
	ttl    time.Duration
	prefix string
}

// NewRedisCache wires a Redis-backed cache. A zero ttl keeps entries until evicted.
func NewRedisCache(client goredis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: defaultKeyPrefix}
}

type cachedUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

func (c *RedisCache) Get(ctx context.Context, id int64) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var entry cachedUser
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode cached user %d: %w", id, err)
	}
	return &domain.User{
		ID:           entry.ID,
		Username:     entry.Username,
		Email:        entry.Email,
		PasswordHash: entry.PasswordHash,
	}, nil
}

func (c *RedisCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil {
		return nil
	}
	raw, err := json.Marshal(cachedUser{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(user.ID), raw, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, id int64) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *RedisCache) key(id int64) string {
	return fmt.Sprintf("%s:%d", c.prefix, id)
}

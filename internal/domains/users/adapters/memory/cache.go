package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
)

var _ ports.Cache = (*Cache)(nil)

// Cache is a process-local user cache. A zero ttl keeps entries until evicted.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int64]cacheEntry
}

type cacheEntry struct {
	user      domain.User
	expiresAt time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now, entries: map[int64]cacheEntry{}}
}

func (c *Cache) Get(_ context.Context, id int64) (*domain.User, error) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	if c.expired(entry) {
		c.mu.Lock()
		// a concurrent Set may have refreshed the entry since the read lock was released
		if current, ok := c.entries[id]; ok && c.expired(current) {
			delete(c.entries, id)
		}
		c.mu.Unlock()
		return nil, ports.ErrCacheMiss
	}
	user := entry.user
	return &user, nil
}

func (c *Cache) expired(entry cacheEntry) bool {
	return !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt)
}

func (c *Cache) Set(_ context.Context, user *domain.User) error {
	if user == nil {
		return nil
	}
	entry := cacheEntry{user: *user}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[user.ID] = entry
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(_ context.Context, id int64) error {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
	return nil
}

package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
)

// ErrCacheMiss is returned by Cache.Get when no entry exists for the id.
var ErrCacheMiss = errors.New("user cache miss")

// Cache holds read-through copies of users keyed by ID.
type Cache interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}

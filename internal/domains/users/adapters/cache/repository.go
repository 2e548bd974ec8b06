package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository puts users into the cache on save, reads through it on get and
// evicts on delete. The inner repository stays authoritative: cache failures
// are logged and never fail the call.
type Repository struct {
	inner  ports.Repository
	cache  ports.Cache
	logger *slog.Logger
}

type Option func(*Repository)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRepository(inner ports.Repository, cache ports.Cache, opts ...Option) *Repository {
	r := &Repository{
		inner:  inner,
		cache:  cache,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	saved, err := r.inner.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, saved); err != nil {
		r.warn(ctx, "failed to cache saved user", saved.ID, err)
	}
	return saved, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	cached, err := r.cache.Get(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ports.ErrCacheMiss) {
		r.warn(ctx, "user cache read failed", id, err)
	}
	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, user); err != nil {
		r.warn(ctx, "failed to cache loaded user", id, err)
	}
	return user, nil
}

// Delete evicts even when the inner delete fails so a stale entry cannot
// outlive its row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	deleteErr := r.inner.Delete(ctx, id)
	if err := r.cache.Delete(ctx, id); err != nil {
		r.warn(ctx, "failed to evict user from cache", id, err)
	}
	return deleteErr
}

func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	return r.inner.List(ctx)
}

func (r *Repository) warn(ctx context.Context, msg string, id int64, err error) {
	r.logger.LogAttrs(ctx, slog.LevelWarn, msg, slog.Int64("user.id", id), slog.String("error", err.Error()))
}

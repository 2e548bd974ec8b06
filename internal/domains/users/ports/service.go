package ports

import (
	"context"

	"github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
)

// Service exposes user use cases to adapters.
type Service interface {
	SaveOrUpdate(ctx context.Context, user *domain.User) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.User, error)
}

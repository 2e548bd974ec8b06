package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrConflict = errors.New("user conflicts with an existing user")
)

// Repository persists users keyed by ID.
type Repository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.User, error)
}

package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
)

// Service implements the user save/get/delete contract on top of a repository.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// SaveOrUpdate upserts the user keyed by ID. A user submitted without a
// password keeps the hash already stored for that ID.
func (s *Service) SaveOrUpdate(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user is nil", ErrInvalidInput)
	}
	clone := *user
	if err := clone.Validate(); err != nil {
		return nil, mapError(err)
	}
	if clone.PasswordHash == "" {
		existing, err := s.repo.GetByID(ctx, clone.ID)
		switch {
		case err == nil:
			clone.PasswordHash = existing.PasswordHash
		case !errors.Is(err, ports.ErrNotFound):
			return nil, err
		}
	}
	return s.repo.Save(ctx, &clone)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, mapError(domain.ErrInvalidID)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return mapError(domain.ErrInvalidID)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

var _ ports.Service = (*Service)(nil)

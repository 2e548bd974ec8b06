package users

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	userapp "github.com/Apurer/go-gin-demo-server/internal/domains/users/application"
	userdomain "github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
)

const (
	// PersistUserActivityName upserts a user through the application service.
	PersistUserActivityName = "users.activities.PersistUser"

	// InvalidInputErrorType tags non-retryable validation failures.
	InvalidInputErrorType = "users.InvalidInput"
	// ConflictErrorType tags non-retryable uniqueness failures.
	ConflictErrorType = "users.Conflict"
)

// Activities groups activities that operate on the users bounded context.
type Activities struct {
	service userports.Service
}

// NewActivities wires the user service into the Temporal activities bundle.
func NewActivities(service userports.Service) *Activities {
	return &Activities{service: service}
}

// PersistUser saves or updates the user and returns the stored state.
func (a *Activities) PersistUser(ctx context.Context, user userdomain.User) (*userdomain.User, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("user persist activity not initialized", "userId", user.ID)
		return nil, errors.New("user persist activity not initialized")
	}
	logger.Info("PersistUser activity started", "userId", user.ID)
	saved, err := a.service.SaveOrUpdate(ctx, &user)
	if err != nil {
		logger.Error("PersistUser activity failed", "userId", user.ID, "error", err)
		switch {
		case errors.Is(err, userapp.ErrInvalidInput):
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), InvalidInputErrorType, err)
		case errors.Is(err, userports.ErrConflict):
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), ConflictErrorType, err)
		}
		return nil, err
	}
	logger.Info("PersistUser activity completed", "userId", saved.ID)
	return saved, nil
}

package ports

import (
	"context"

	"github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
)

// WorkflowOrchestrator runs durable user workflows.
type WorkflowOrchestrator interface {
	SaveOrUpdate(ctx context.Context, user *domain.User) (*domain.User, error)
}

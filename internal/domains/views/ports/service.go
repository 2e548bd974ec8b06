package ports

import (
	"context"

	"github.com/Apurer/go-gin-demo-server/internal/domains/views/domain"
)

// Service builds the view models for the demo pages.
type Service interface {
	IndexPage(ctx context.Context) domain.Page
	IndexAttributes(ctx context.Context) domain.Page
}

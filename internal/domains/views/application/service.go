package application

import (
	"context"

	"github.com/Apurer/go-gin-demo-server/internal/domains/views/domain"
	"github.com/Apurer/go-gin-demo-server/internal/domains/views/ports"
)

// IndexTemplate is the template both pages render into.
const IndexTemplate = "index"

// Service builds the demo pages. It holds no state; every call returns a new Page.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// IndexPage is the model-and-view page served at /index.
func (s *Service) IndexPage(_ context.Context) domain.Page {
	return domain.Page{
		Name:   IndexTemplate,
		Title:  "我的第一个界面",
		Desc:   "111111111111",
		Author: newAuthor(),
	}
}

// IndexAttributes is the request-attribute page served at /index1.
func (s *Service) IndexAttributes(_ context.Context) domain.Page {
	return domain.Page{
		Name:   IndexTemplate,
		Title:  "我的第二个界面",
		Desc:   "2222222222",
		Author: newAuthor(),
	}
}

func newAuthor() domain.Author {
	return domain.Author{
		Age:   22,
		Name:  "唐亚峰",
		Email: "1837307557@qq.com",
	}
}

var _ ports.Service = (*Service)(nil)

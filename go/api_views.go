package demoserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	viewdomain "github.com/Apurer/go-gin-demo-server/internal/domains/views/domain"
	viewports "github.com/Apurer/go-gin-demo-server/internal/domains/views/ports"
)

// ViewAPI serves the server-rendered pages.
type ViewAPI struct {
	service viewports.Service
}

func NewViewAPI(service viewports.Service) ViewAPI {
	return ViewAPI{service: service}
}

// Get /index
// Renders the index page from a model built by the handler
func (api *ViewAPI) Index(c *gin.Context) {
	page := api.service.IndexPage(c.Request.Context())
	c.HTML(http.StatusOK, page.Name, page.Attributes())
}

// Get /index1
// Renders the index page from request-scoped attributes
func (api *ViewAPI) Index1(c *gin.Context) {
	page := api.service.IndexAttributes(c.Request.Context())
	for key, value := range page.Attributes() {
		c.Set(key, value)
	}
	model := gin.H{}
	for _, key := range viewdomain.AttributeKeys {
		if value, ok := c.Get(key); ok {
			model[key] = value
		}
	}
	c.HTML(http.StatusOK, page.Name, model)
}

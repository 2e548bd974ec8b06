package demoserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/http/mapper"
	userapp "github.com/Apurer/go-gin-demo-server/internal/domains/users/application"
	userdomain "github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
)

// UserAPI wires HTTP transport with the users service and its save workflow.
type UserAPI struct {
	service   userports.Service
	workflows userports.WorkflowOrchestrator
}

// NewUserAPI wires dependencies. workflows may be nil, in which case saves go
// straight to the service.
func NewUserAPI(service userports.Service, workflows userports.WorkflowOrchestrator) UserAPI {
	return UserAPI{service: service, workflows: workflows}
}

func toTransportUser(model User) userhttpmapper.User {
	return userhttpmapper.User{
		ID:       model.Id,
		Username: model.Username,
		Email:    model.Email,
		Password: model.Password,
	}
}

func fromTransportUser(user userhttpmapper.User) User {
	return User{
		Id:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func fromTransportUsers(users []userhttpmapper.User) []User {
	result := make([]User, 0, len(users))
	for _, user := range users {
		result = append(result, fromTransportUser(user))
	}
	return result
}

// Post /users
// Put /users
// Creates the user or replaces the one stored under the same id
func (api *UserAPI) SaveOrUpdateUser(c *gin.Context) {
	var payload User
	if err := c.ShouldBindJSON(&payload); err != nil {
		problemResponder.BadRequest(c, err.Error())
		return
	}
	user, err := userhttpmapper.ToDomainUser(toTransportUser(payload))
	if err != nil {
		respondUserError(c, fmt.Errorf("%w: %w", userapp.ErrInvalidInput, err))
		return
	}
	saved, err := api.saveOrUpdate(c.Request.Context(), user)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportUser(userhttpmapper.FromDomainUser(saved)))
}

func (api *UserAPI) saveOrUpdate(ctx context.Context, user *userdomain.User) (*userdomain.User, error) {
	if api.workflows != nil {
		return api.workflows.SaveOrUpdate(ctx, user)
	}
	return api.service.SaveOrUpdate(ctx, user)
}

// Get /users
// Lists users ordered by id
func (api *UserAPI) ListUsers(c *gin.Context) {
	users, err := api.service.List(c.Request.Context())
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportUsers(userhttpmapper.FromDomainUsers(users)))
}

// Get /users/:id
// Get user by id
func (api *UserAPI) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := api.service.Get(c.Request.Context(), id)
	if errors.Is(err, userports.ErrNotFound) {
		problemResponder.NotFound(c, "user", id)
		return
	}
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportUser(userhttpmapper.FromDomainUser(user)))
}

// Delete /users/:id
// Delete user
func (api *UserAPI) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	err := api.service.Delete(c.Request.Context(), id)
	if errors.Is(err, userports.ErrNotFound) {
		problemResponder.NotFound(c, "user", id)
		return
	}
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		problemResponder.BadRequest(c, fmt.Sprintf("%s must be an integer, got %q", name, value))
		return 0, false
	}
	return id, true
}

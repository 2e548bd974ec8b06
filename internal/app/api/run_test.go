package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	demoserver "github.com/Apurer/go-gin-demo-server/go"
	userworkflows "github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/workflows"
	userapp "github.com/Apurer/go-gin-demo-server/internal/domains/users/application"
	userdomain "github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
	viewapp "github.com/Apurer/go-gin-demo-server/internal/domains/views/application"
	"github.com/Apurer/go-gin-demo-server/internal/http/middleware"
	platformobservability "github.com/Apurer/go-gin-demo-server/internal/platform/observability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewUserStoreFallsBackToMemory(t *testing.T) {
	clearConfigEnv(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)

	store, err := NewUserStore(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer store.Cleanup()
	assert.False(t, store.Shared)

	user, err := userdomain.NewUser(1, "tang")
	require.NoError(t, err)
	_, err = store.Repository.Save(context.Background(), user)
	require.NoError(t, err)
	got, err := store.Repository.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "tang", got.Username)
}

func TestConnectTemporalHonoursDisabled(t *testing.T) {
	c, err := ConnectTemporal(TemporalConfig{Disabled: true}, nil, "test")
	require.Error(t, err)
	assert.Nil(t, c)
}

func TestSelectUserWorkflowsStaysInlineForProcessLocalStore(t *testing.T) {
	inline := userworkflows.NewInlineUserWorkflows(nil)
	dialed := false

	got, closeFn := selectUserWorkflows(UserStore{Shared: false}, inline, func() (client.Client, error) {
		dialed = true
		return &mocks.Client{}, nil
	}, discardLogger())
	defer closeFn()

	assert.Same(t, inline, got)
	assert.False(t, dialed)
}

func TestSelectUserWorkflowsFallsBackWhenTemporalUnreachable(t *testing.T) {
	inline := userworkflows.NewInlineUserWorkflows(nil)

	got, closeFn := selectUserWorkflows(UserStore{Shared: true}, inline, func() (client.Client, error) {
		return nil, errors.New("connection refused")
	}, discardLogger())
	defer closeFn()

	assert.Same(t, inline, got)
}

func TestSelectUserWorkflowsUsesTemporalForSharedStore(t *testing.T) {
	inline := userworkflows.NewInlineUserWorkflows(nil)
	temporalClient := &mocks.Client{}
	temporalClient.On("Close").Return().Once()

	got, closeFn := selectUserWorkflows(UserStore{Shared: true}, inline, func() (client.Client, error) {
		return temporalClient, nil
	}, discardLogger())

	assert.IsType(t, &userworkflows.TemporalUserWorkflows{}, got)
	closeFn()
	temporalClient.AssertExpectations(t)
}

// Two processes on the memory fallback must not split a save from its read.
func TestProcessLocalStoresDoNotShareUsers(t *testing.T) {
	clearConfigEnv(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	ctx := context.Background()

	apiStore, err := NewUserStore(ctx, cfg, discardLogger())
	require.NoError(t, err)
	defer apiStore.Cleanup()
	workerStore, err := NewUserStore(ctx, cfg, discardLogger())
	require.NoError(t, err)
	defer workerStore.Cleanup()

	user, err := userdomain.NewUser(1, "alice")
	require.NoError(t, err)
	_, err = workerStore.Repository.Save(ctx, user)
	require.NoError(t, err)
	_, err = apiStore.Repository.GetByID(ctx, 1)
	require.ErrorIs(t, err, userports.ErrNotFound)

	workflows, closeFn := selectUserWorkflows(apiStore, userworkflows.NewInlineUserWorkflows(userapp.NewService(apiStore.Repository)), func() (client.Client, error) {
		return &mocks.Client{}, nil
	}, discardLogger())
	defer closeFn()
	saved, err := workflows.SaveOrUpdate(ctx, user)
	require.NoError(t, err)
	got, err := apiStore.Repository.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestRouterServesPagesUsersAndMetrics(t *testing.T) {
	clearConfigEnv(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	store, err := NewUserStore(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer store.Cleanup()
	userService := userapp.NewService(store.Repository)

	router, err := newRouter(discardLogger(), platformobservability.NewRegistry(), demoserver.ApiHandleFunctions{
		ViewAPI: demoserver.NewViewAPI(viewapp.NewService()),
		UserAPI: demoserver.NewUserAPI(userService, nil),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "我的第一个界面")
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"id":5,"username":"cached","password":"secret"}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", body))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":5,"username":"cached"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, middleware.MetricsPath, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/index",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `path="/users/:id"`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/Apurer/go-gin-demo-server/test/pact"

	demoserver "github.com/Apurer/go-gin-demo-server/go"
	usermemory "github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/observability"
	userworkflows "github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/workflows"
	userapp "github.com/Apurer/go-gin-demo-server/internal/domains/users/application"
	userdomain "github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	viewapp "github.com/Apurer/go-gin-demo-server/internal/domains/views/application"
	"github.com/Apurer/go-gin-demo-server/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestDemoProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateUsersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetUsers(t)
			return nil, nil
		},
		pacttest.StateUserExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetUsers(t)
			if setup {
				app.seedUser(t, pacttest.ExistingUserID)
			}
			return nil, nil
		},
		pacttest.StateUserMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetUsers(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.resetUsers(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	repo   *usermemory.Repository
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	userRepo := usermemory.NewRepository()
	userService := userobs.New(userapp.NewService(userRepo))
	handlers := demoserver.ApiHandleFunctions{
		ViewAPI: demoserver.NewViewAPI(viewapp.NewService()),
		UserAPI: demoserver.NewUserAPI(userService, userworkflows.NewInlineUserWorkflows(userService)),
	}

	templates, err := web.Templates()
	require.NoError(t, err)
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(templates)
	router = demoserver.NewRouterWithGinEngine(router, handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{repo: userRepo, server: server}
}

func (a *contractProviderApp) resetUsers(t testing.TB) {
	t.Helper()
	users, err := a.repo.List(context.Background())
	require.NoError(t, err)
	for _, user := range users {
		_ = a.repo.Delete(context.Background(), user.ID)
	}
}

func (a *contractProviderApp) seedUser(t testing.TB, id int64) {
	t.Helper()
	user, err := userdomain.NewUser(id, pacttest.UserUsername)
	require.NoError(t, err)
	require.NoError(t, user.SetEmail(pacttest.UserEmail))
	require.NoError(t, user.SetPassword(pacttest.UserPassword))
	_, err = a.repo.Save(context.Background(), user)
	require.NoError(t, err)
}

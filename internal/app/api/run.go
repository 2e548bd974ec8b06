package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	demoserver "github.com/Apurer/go-gin-demo-server/go"

	usercache "github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/cache"
	usermemory "github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/persistence/postgres"
	userworkflows "github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/workflows"
	userapp "github.com/Apurer/go-gin-demo-server/internal/domains/users/application"
	userports "github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
	viewapp "github.com/Apurer/go-gin-demo-server/internal/domains/views/application"
	"github.com/Apurer/go-gin-demo-server/internal/http/middleware"
	"github.com/Apurer/go-gin-demo-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-demo-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-demo-server/internal/platform/postgres"
	platformredis "github.com/Apurer/go-gin-demo-server/internal/platform/redis"
	"github.com/Apurer/go-gin-demo-server/internal/web"
)

const serviceName = "demo-api"

// Run boots the HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	store, err := NewUserStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Cleanup()
	userService := userobs.New(
		userapp.NewService(store.Repository),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	userWorkflows, closeWorkflows := selectUserWorkflows(store, userworkflows.NewInlineUserWorkflows(userService), func() (client.Client, error) {
		return ConnectTemporal(cfg.Temporal, instruments, "temporal-client")
	}, logger)
	defer closeWorkflows()

	router, err := newRouter(logger, instruments.Registry, demoserver.ApiHandleFunctions{
		ViewAPI: demoserver.NewViewAPI(viewapp.NewService()),
		UserAPI: demoserver.NewUserAPI(userService, userWorkflows),
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("demo API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		logger.Error("demo API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down demo API", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newRouter applies the process-wide middleware before any route is added,
// since gin fixes each route's handler chain at registration.
func newRouter(logger *slog.Logger, registry *prometheus.Registry, handlers demoserver.ApiHandleFunctions) (*gin.Engine, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	metrics, err := middleware.NewPrometheus(registry)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(serviceName),
		middleware.RequestID(),
		middleware.Logger(logger),
		metrics.Handler(),
	)
	router.SetHTMLTemplate(templates)
	router.GET(middleware.MetricsPath, gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	return demoserver.NewRouterWithGinEngine(router, handlers), nil
}

// UserStore is the users repository a process runs on.
type UserStore struct {
	Repository userports.Repository
	// Shared is true when both rows and cache entries are visible to other processes.
	Shared  bool
	Cleanup func()
}

// NewUserStore picks PostgreSQL when POSTGRES_DSN is reachable and memory
// otherwise, then fronts it with Redis or an in-process cache.
func NewUserStore(ctx context.Context, cfg Config, logger *slog.Logger) (UserStore, error) {
	var repo userports.Repository = usermemory.NewRepository()
	db, cleanupDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			cleanupDB()
			return UserStore{}, fmt.Errorf("migrate users schema: %w", err)
		}
		repo = userpostgres.NewRepository(db)
		logger.Info("user repository configured with postgres")
	}

	var cache userports.Cache = usermemory.NewCache(cfg.UserCacheTTL)
	redisClient, cleanupRedis := platformredis.ConnectOrFallback(ctx, platformredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if redisClient != nil {
		cache = usercache.NewRedisCache(redisClient, cfg.UserCacheTTL)
	}

	return UserStore{
		Repository: usercache.NewRepository(repo, cache, usercache.WithLogger(logger)),
		Shared:     db != nil && redisClient != nil,
		Cleanup: func() {
			cleanupRedis()
			cleanupDB()
		},
	}, nil
}

// selectUserWorkflows runs saves through Temporal only when the worker shares
// this process's store; otherwise the API could not read what the worker wrote.
func selectUserWorkflows(store UserStore, inline userports.WorkflowOrchestrator, dial func() (client.Client, error), logger *slog.Logger) (userports.WorkflowOrchestrator, func()) {
	if !store.Shared {
		logger.Warn("user store is process-local, running inline SaveOrUpdate")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running inline SaveOrUpdate", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return userworkflows.NewTemporalUserWorkflows(temporalClient), temporalClient.Close
}

// ConnectTemporal dials Temporal with tracing and slog bridged in.
func ConnectTemporal(cfg TemporalConfig, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.Disabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.Address,
		Namespace: cfg.Namespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-demo-server/internal/app/api"
	userobs "github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/observability"
	userapp "github.com/Apurer/go-gin-demo-server/internal/domains/users/application"
	platformobservability "github.com/Apurer/go-gin-demo-server/internal/platform/observability"
	useractivities "github.com/Apurer/go-gin-demo-server/internal/platform/temporal/activities/users"
	userworkflows "github.com/Apurer/go-gin-demo-server/internal/platform/temporal/workflows/users"
)

func main() {
	ctx := context.Background()
	const serviceName = "demo-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	store, err := api.NewUserStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build user repository", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Cleanup()
	if !store.Shared {
		// the API only dispatches saves here when POSTGRES_DSN and REDIS_ADDR are both reachable
		logger.Warn("user store is process-local, the API will not route saves to this worker")
	}
	userService := userobs.New(
		userapp.NewService(store.Repository),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	activities := useractivities.NewActivities(userService)

	temporalClient, err := api.ConnectTemporal(cfg.Temporal, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, userworkflows.UserSaveTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(userworkflows.UserSaveWorkflow, workflow.RegisterOptions{Name: userworkflows.UserSaveWorkflowName})
	w.RegisterActivityWithOptions(activities.PersistUser, activity.RegisterOptions{Name: useractivities.PersistUserActivityName})

	logger.Info("worker listening", slog.String("taskQueue", userworkflows.UserSaveTaskQueue), slog.String("namespace", cfg.Temporal.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

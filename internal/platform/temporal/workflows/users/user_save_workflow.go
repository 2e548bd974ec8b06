package users

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	userdomain "github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	useractivities "github.com/Apurer/go-gin-demo-server/internal/platform/temporal/activities/users"
)

const (
	// UserSaveWorkflowName is the public identifier for registering the workflow.
	UserSaveWorkflowName = "users.workflows.Save"
	// UserSaveTaskQueue is the queue consumed by the worker processing user workflows.
	UserSaveTaskQueue = "USER_SAVE"
)

// UserSaveWorkflowInput captures the user to upsert.
type UserSaveWorkflowInput struct {
	User    userdomain.User
	TraceID string
}

// UserSaveWorkflow persists a user with retries for transient storage failures.
func UserSaveWorkflow(ctx workflow.Context, input UserSaveWorkflowInput) (*userdomain.User, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("UserSaveWorkflow started", withTraceID(input.TraceID, "userId", input.User.ID)...)

	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	var saved userdomain.User
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), useractivities.PersistUserActivityName, input.User).Get(ctx, &saved)
	if err != nil {
		logger.Error("UserSaveWorkflow failed", withTraceID(input.TraceID, "userId", input.User.ID, "error", err)...)
		return nil, err
	}
	logger.Info("UserSaveWorkflow completed", withTraceID(input.TraceID, "userId", saved.ID)...)
	return &saved, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}

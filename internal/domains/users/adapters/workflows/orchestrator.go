package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	userapp "github.com/Apurer/go-gin-demo-server/internal/domains/users/application"
	userdomain "github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
	useractivities "github.com/Apurer/go-gin-demo-server/internal/platform/temporal/activities/users"
	userworkflows "github.com/Apurer/go-gin-demo-server/internal/platform/temporal/workflows/users"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalUserWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineUserWorkflows)(nil)
)

// TemporalUserWorkflows starts user workflows on a Temporal cluster.
type TemporalUserWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalUserWorkflows wires a Temporal client into the orchestrator.
func NewTemporalUserWorkflows(c client.Client) *TemporalUserWorkflows {
	return &TemporalUserWorkflows{client: c, taskQueue: userworkflows.UserSaveTaskQueue}
}

// SaveOrUpdate runs the save workflow and waits for its result.
func (o *TemporalUserWorkflows) SaveOrUpdate(ctx context.Context, user *userdomain.User) (*userdomain.User, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal user workflows not configured")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user is nil", userapp.ErrInvalidInput)
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := fmt.Sprintf("user-save-%d-%s", user.ID, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		userworkflows.UserSaveWorkflowName,
		userworkflows.UserSaveWorkflowInput{User: *user, TraceID: traceComponent},
	)
	if err != nil {
		// A retried request in the same trace joins the save already in flight.
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var saved userdomain.User
	if err := run.Get(ctx, &saved); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &saved, nil
}

// InlineUserWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineUserWorkflows struct {
	service ports.Service
}

// NewInlineUserWorkflows wraps the user service for synchronous execution.
func NewInlineUserWorkflows(service ports.Service) *InlineUserWorkflows {
	return &InlineUserWorkflows{service: service}
}

// SaveOrUpdate delegates to the application service without durable orchestration.
func (o *InlineUserWorkflows) SaveOrUpdate(ctx context.Context, user *userdomain.User) (*userdomain.User, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline user workflows not configured")
	}
	return o.service.SaveOrUpdate(ctx, user)
}

// translateWorkflowError restores the domain sentinels lost when errors cross
// the Temporal boundary.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case useractivities.InvalidInputErrorType:
		return fmt.Errorf("%w: %s", userapp.ErrInvalidInput, appErr.Error())
	case useractivities.ConflictErrorType:
		return fmt.Errorf("%w: %s", ports.ErrConflict, appErr.Error())
	}
	return err
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

// Package workflows hands purchase side effects to durable Temporal workflows.
package workflows

import (
	"context"
	"errors"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	purchaseactivities "github.com/Apurer/go-gin-bookstore/internal/durable/temporal/activities/purchases"
	purchaseworkflows "github.com/Apurer/go-gin-bookstore/internal/durable/temporal/workflows/purchases"
	"github.com/Apurer/go-gin-bookstore/internal/platform/events"
)

// WorkflowStarter is the subset of client.Client used to start runs.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalStockUpdate starts one StockUpdate workflow per purchase and does not wait for it.
// Runs are started by registered name since the API process never registers the workflow itself.
type TemporalStockUpdate struct {
	client    WorkflowStarter
	taskQueue string
}

func NewTemporalStockUpdate(c WorkflowStarter) *TemporalStockUpdate {
	return &TemporalStockUpdate{client: c, taskQueue: purchaseworkflows.StockUpdateTaskQueue}
}

func (t *TemporalStockUpdate) Handle(ctx context.Context, event events.Event) error {
	if t == nil || t.client == nil {
		return errors.New("temporal stock update not configured")
	}
	completed, ok := event.(domain.PurchaseCompleted)
	if !ok || completed.Purchase == nil {
		return errors.New("temporal stock update: unexpected event")
	}
	purchase := completed.Purchase
	options := client.StartWorkflowOptions{
		ID:                    purchaseworkflows.StockUpdateWorkflowID(purchase.ID),
		TaskQueue:             t.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	_, err := t.client.ExecuteWorkflow(ctx, options, purchaseworkflows.StockUpdateWorkflowName, purchaseworkflows.StockUpdateWorkflowInput{
		Stock:   purchaseactivities.StockUpdateInput{PurchaseID: purchase.ID, BookIDs: purchase.BookIDs},
		TraceID: traceID(ctx),
	})
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		return nil
	}
	return err
}

func traceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}

var _ events.Subscriber = (*TemporalStockUpdate)(nil)

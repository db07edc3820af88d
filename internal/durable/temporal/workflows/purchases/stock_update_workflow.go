package purchases

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	purchaseactivities "github.com/Apurer/go-gin-bookstore/internal/durable/temporal/activities/purchases"
	"github.com/Apurer/go-gin-bookstore/internal/durable/temporal/sequences"
)

const (
	// StockUpdateWorkflowName is the public identifier for registering the workflow.
	StockUpdateWorkflowName = "purchases.workflows.StockUpdate"
	// StockUpdateTaskQueue is the queue consumed by the worker processing purchase workflows.
	StockUpdateTaskQueue = "PURCHASE_STOCK_UPDATE"
)

// StockUpdateWorkflowID gives each purchase a single workflow run.
func StockUpdateWorkflowID(purchaseID int64) string {
	return fmt.Sprintf("purchase-stock-%d", purchaseID)
}

// StockUpdateWorkflowInput captures the purchase to apply to stock.
type StockUpdateWorkflowInput struct {
	Stock   purchaseactivities.StockUpdateInput
	TraceID string
}

// StockUpdateWorkflow marks the books of a completed purchase SOLD.
func StockUpdateWorkflow(ctx workflow.Context, input StockUpdateWorkflowInput) (int, error) {
	logger := workflow.GetLogger(ctx)
	purchaseID := input.Stock.PurchaseID
	logger.Info("StockUpdateWorkflow started", withTraceID(input.TraceID, "purchaseId", purchaseID)...)
	sold, err := sequences.RunStockUpdateSequence(ctx, input.Stock)
	if err != nil {
		logger.Error("StockUpdateWorkflow failed", withTraceID(input.TraceID, "purchaseId", purchaseID, "error", err)...)
		return 0, err
	}
	logger.Info("StockUpdateWorkflow completed", withTraceID(input.TraceID, "purchaseId", purchaseID, "sold", sold)...)
	return sold, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}

package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	purchaseactivities "github.com/Apurer/go-gin-bookstore/internal/durable/temporal/activities/purchases"
)

// RunStockUpdateSequence executes the activities that apply a purchase to stock.
func RunStockUpdateSequence(ctx workflow.Context, input purchaseactivities.StockUpdateInput) (int, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("stock update sequence started", "purchaseId", input.PurchaseID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var sold int
	err := workflow.ExecuteActivity(ctx, purchaseactivities.MarkBooksSoldActivityName, input).Get(ctx, &sold)
	if err != nil {
		logger.Error("stock update sequence failed", "purchaseId", input.PurchaseID, "error", err)
		return 0, err
	}
	logger.Info("stock update sequence completed", "purchaseId", input.PurchaseID, "sold", sold)
	return sold, nil
}

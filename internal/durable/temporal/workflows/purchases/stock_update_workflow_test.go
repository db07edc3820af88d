package purchases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	bookmemory "github.com/Apurer/go-gin-bookstore/internal/domains/books/adapters/memory"
	bookapp "github.com/Apurer/go-gin-bookstore/internal/domains/books/application"
	bookdomain "github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	purchaseactivities "github.com/Apurer/go-gin-bookstore/internal/durable/temporal/activities/purchases"
)

func TestStockUpdateWorkflow_MarksBooksSold(t *testing.T) {
	repo := bookmemory.NewRepository()
	books := bookapp.NewService(repo, nil)
	ctx := context.Background()
	var ids []int64
	for _, name := range []string{"a", "b"} {
		b, err := bookdomain.NewBook(name, 1000, 1)
		require.NoError(t, err)
		saved, err := books.Create(ctx, b)
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := purchaseactivities.NewActivities(books)
	env.RegisterWorkflowWithOptions(StockUpdateWorkflow, workflow.RegisterOptions{Name: StockUpdateWorkflowName})
	env.RegisterActivityWithOptions(acts.MarkBooksSold, activity.RegisterOptions{Name: purchaseactivities.MarkBooksSoldActivityName})

	env.ExecuteWorkflow(StockUpdateWorkflowName, StockUpdateWorkflowInput{
		Stock: purchaseactivities.StockUpdateInput{PurchaseID: 9, BookIDs: ids},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var sold int
	require.NoError(t, env.GetWorkflowResult(&sold))
	assert.Equal(t, 2, sold)

	stored, err := books.FindAllByIDs(ctx, ids)
	require.NoError(t, err)
	for _, b := range stored {
		assert.Equal(t, bookdomain.StatusSold, b.Status)
	}
}

func TestStockUpdateWorkflowID(t *testing.T) {
	assert.Equal(t, "purchase-stock-12", StockUpdateWorkflowID(12))
}

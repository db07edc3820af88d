package purchases

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	bookdomain "github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
)

const (
	// MarkBooksSoldActivityName flags the books of a purchase SOLD.
	MarkBooksSoldActivityName = "purchases.activities.MarkBooksSold"
)

// StockUpdateInput identifies the books bought in a purchase.
type StockUpdateInput struct {
	PurchaseID int64
	BookIDs    []int64
}

// BookStock is the slice of the books service the activities need.
type BookStock interface {
	FindAllByIDs(ctx context.Context, ids []int64) ([]*bookdomain.Book, error)
	Purchase(ctx context.Context, books []*bookdomain.Book) error
}

// Activities groups activities that operate on purchases.
type Activities struct {
	books BookStock
}

func NewActivities(books BookStock) *Activities {
	return &Activities{books: books}
}

// MarkBooksSold reloads the purchased books and flags them SOLD. Reruns are harmless.
func (a *Activities) MarkBooksSold(ctx context.Context, input StockUpdateInput) (int, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.books == nil {
		logger.Error("stock update activity not initialized", "purchaseId", input.PurchaseID)
		return 0, errors.New("stock update activity not initialized")
	}
	logger.Info("MarkBooksSold activity started", "purchaseId", input.PurchaseID, "books", len(input.BookIDs))
	books, err := a.books.FindAllByIDs(ctx, input.BookIDs)
	if err != nil {
		logger.Error("MarkBooksSold failed to load books", "purchaseId", input.PurchaseID, "error", err)
		return 0, err
	}
	if err := a.books.Purchase(ctx, books); err != nil {
		logger.Error("MarkBooksSold failed", "purchaseId", input.PurchaseID, "error", err)
		return 0, err
	}
	logger.Info("MarkBooksSold activity completed", "purchaseId", input.PurchaseID, "sold", len(books))
	return len(books), nil
}

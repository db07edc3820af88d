package ports

import (
	"context"

	bookdomain "github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	customerdomain "github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
	"github.com/Apurer/go-gin-bookstore/internal/platform/events"
)

// Publisher hands events to subscribers without blocking the caller.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) bool
}

// CustomerDirectory resolves the buyer.
type CustomerDirectory interface {
	FindByID(ctx context.Context, id int64) (*customerdomain.Customer, error)
}

// BookCatalog resolves the books being bought.
type BookCatalog interface {
	FindAllByIDs(ctx context.Context, ids []int64) ([]*bookdomain.Book, error)
}

// StockUpdater applies the stock side effect of a purchase.
type StockUpdater interface {
	Purchase(ctx context.Context, books []*bookdomain.Book) error
}

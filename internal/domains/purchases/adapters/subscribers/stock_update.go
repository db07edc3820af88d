// Package subscribers holds the in-process reactions to purchase events.
package subscribers

import (
	"context"
	"fmt"

	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/ports"
	"github.com/Apurer/go-gin-bookstore/internal/platform/events"
)

// StockUpdate flags the purchased books SOLD.
type StockUpdate struct {
	books ports.StockUpdater
}

func NewStockUpdate(books ports.StockUpdater) *StockUpdate {
	return &StockUpdate{books: books}
}

func (s *StockUpdate) Handle(ctx context.Context, event events.Event) error {
	completed, err := purchaseCompleted(event)
	if err != nil {
		return err
	}
	return s.books.Purchase(ctx, completed.Purchase.Books)
}

func purchaseCompleted(event events.Event) (domain.PurchaseCompleted, error) {
	switch e := event.(type) {
	case domain.PurchaseCompleted:
		if e.Purchase == nil {
			return e, fmt.Errorf("%s event without purchase", e.EventName())
		}
		return e, nil
	case *domain.PurchaseCompleted:
		if e == nil || e.Purchase == nil {
			return domain.PurchaseCompleted{}, fmt.Errorf("%s event without purchase", domain.PurchaseCompletedEvent)
		}
		return *e, nil
	}
	return domain.PurchaseCompleted{}, fmt.Errorf("unexpected event %T", event)
}

var _ events.Subscriber = (*StockUpdate)(nil)

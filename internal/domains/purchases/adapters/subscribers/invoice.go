package subscribers

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	"github.com/Apurer/go-gin-bookstore/internal/platform/events"
)

// PurchaseUpdater re-persists a purchase.
type PurchaseUpdater interface {
	Update(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error)
}

// Invoice assigns an NFE number to purchases that have none.
type Invoice struct {
	purchases PurchaseUpdater
	newNFE    func() string
}

func NewInvoice(purchases PurchaseUpdater) *Invoice {
	return &Invoice{purchases: purchases, newNFE: uuid.NewString}
}

func (i *Invoice) Handle(ctx context.Context, event events.Event) error {
	completed, err := purchaseCompleted(event)
	if err != nil {
		return err
	}
	if completed.Purchase.HasInvoice() {
		return nil
	}
	purchase := completed.Purchase.Clone()
	purchase.NFE = i.newNFE()
	_, err = i.purchases.Update(ctx, purchase)
	return err
}

var _ events.Subscriber = (*Invoice)(nil)

package ports

import (
	"context"

	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
)

// PurchaseRequest is a checkout command.
type PurchaseRequest struct {
	CustomerID int64
	BookIDs    []int64
}

// Service exposes purchase use cases to adapters.
type Service interface {
	Checkout(ctx context.Context, req PurchaseRequest) (*domain.Purchase, error)
	// CheckoutOnce behaves like Checkout but replays the purchase already recorded under key.
	CheckoutOnce(ctx context.Context, key string, req PurchaseRequest) (*domain.Purchase, error)
	CreatePurchase(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error)
	Update(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error)
	FindByID(ctx context.Context, id int64) (*domain.Purchase, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Purchase, error)
}

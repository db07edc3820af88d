package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
)

var ErrNotFound = errors.New("purchase not found")

// Repository persists purchases. Save inserts when ID is zero and overwrites otherwise.
type Repository interface {
	Save(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error)
	GetByID(ctx context.Context, id int64) (*domain.Purchase, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Purchase, error)
}

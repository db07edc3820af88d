package ports

import (
	"context"

	"github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
)

// Service exposes customer use cases to adapters.
type Service interface {
	GetCustomers(ctx context.Context, name *string) ([]*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
	PutCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	EmailAvailable(ctx context.Context, email string) (bool, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Customer, string, error)
	ResolveSession(ctx context.Context, token string) (*domain.Customer, error)
	Logout(ctx context.Context, token string) error
}

package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
)

var (
	ErrNotFound           = errors.New("customer not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Repository persists customers. Save inserts when ID is zero and overwrites otherwise.
type Repository interface {
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	// FindByNameContaining matches a case-sensitive substring of the name.
	FindByNameContaining(ctx context.Context, name string) ([]*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
}

// BookReleaser soft-deletes the books owned by a customer.
type BookReleaser interface {
	DeleteByCustomer(ctx context.Context, customerID int64) error
}

// PasswordHasher hashes and verifies customer passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
	IsHashed(value string) bool
}

package ports

import (
	"context"

	"github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	"github.com/Apurer/go-gin-bookstore/internal/shared/pagination"
)

// BookChanges carries a partial update. Nil fields are left untouched.
type BookChanges struct {
	Name  *string
	Price *int64
}

// Service exposes book use cases to adapters.
type Service interface {
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	FindAll(ctx context.Context, page pagination.Pageable) (pagination.Page[*domain.Book], error)
	FindActives(ctx context.Context, page pagination.Pageable) (pagination.Page[*domain.Book], error)
	FindByID(ctx context.Context, id int64) (*domain.Book, error)
	Update(ctx context.Context, id int64, changes BookChanges) (*domain.Book, error)
	Delete(ctx context.Context, id int64) error
	DeleteByCustomer(ctx context.Context, customerID int64) error
	FindAllByIDs(ctx context.Context, ids []int64) ([]*domain.Book, error)
	Purchase(ctx context.Context, books []*domain.Book) error
}

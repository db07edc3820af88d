package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	"github.com/Apurer/go-gin-bookstore/internal/shared/pagination"
)

var ErrNotFound = errors.New("book not found")

// Repository persists books. Save inserts when ID is zero and overwrites otherwise.
type Repository interface {
	Save(ctx context.Context, book *domain.Book) (*domain.Book, error)
	SaveAll(ctx context.Context, books []*domain.Book) error
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	FindAll(ctx context.Context, page pagination.Pageable) (pagination.Page[*domain.Book], error)
	FindByStatus(ctx context.Context, status domain.Status, page pagination.Pageable) (pagination.Page[*domain.Book], error)
	FindByCustomer(ctx context.Context, customerID int64) ([]*domain.Book, error)
	// FindAllByIDs returns the books found, in id order; unknown ids are skipped.
	FindAllByIDs(ctx context.Context, ids []int64) ([]*domain.Book, error)
}

package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/books/ports"
	"github.com/Apurer/go-gin-bookstore/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory book persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	books  map[int64]*domain.Book
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{books: map[int64]*domain.Book{}}
}

func (r *Repository) Save(_ context.Context, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store(book), nil
}

// SaveAll stores every book under a single lock.
func (r *Repository) SaveAll(_ context.Context, books []*domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, book := range books {
		if book != nil {
			r.store(book)
		}
	}
	return nil
}

func (r *Repository) store(book *domain.Book) *domain.Book {
	clone := book.Clone()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.books[clone.ID] = clone
	return clone.Clone()
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	book, ok := r.books[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return book.Clone(), nil
}

func (r *Repository) FindAll(_ context.Context, page pagination.Pageable) (pagination.Page[*domain.Book], error) {
	return pagination.Slice(r.collect(func(*domain.Book) bool { return true }), page), nil
}

func (r *Repository) FindByStatus(_ context.Context, status domain.Status, page pagination.Pageable) (pagination.Page[*domain.Book], error) {
	return pagination.Slice(r.collect(func(b *domain.Book) bool { return b.Status == status }), page), nil
}

func (r *Repository) FindByCustomer(_ context.Context, customerID int64) ([]*domain.Book, error) {
	return r.collect(func(b *domain.Book) bool { return b.CustomerID == customerID }), nil
}

func (r *Repository) FindAllByIDs(_ context.Context, ids []int64) ([]*domain.Book, error) {
	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return r.collect(func(b *domain.Book) bool {
		_, ok := wanted[b.ID]
		return ok
	}), nil
}

func (r *Repository) collect(keep func(*domain.Book) bool) []*domain.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Book, 0, len(r.books))
	for _, book := range r.books {
		if keep(book) {
			list = append(list, book.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

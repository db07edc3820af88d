package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory purchase persistence adapter. Resolved books are not kept.
type Repository struct {
	mu        sync.RWMutex
	purchases map[int64]*domain.Purchase
	nextID    int64
}

func NewRepository() *Repository {
	return &Repository{purchases: map[int64]*domain.Purchase{}}
}

func (r *Repository) Save(_ context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	if purchase == nil {
		return nil, errors.New("purchase is nil")
	}
	clone := purchase.Clone()
	clone.Books = nil
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if _, ok := r.purchases[clone.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.purchases[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	purchase, ok := r.purchases[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return purchase.Clone(), nil
}

func (r *Repository) ListByCustomer(_ context.Context, customerID int64) ([]*domain.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Purchase, 0)
	for _, purchase := range r.purchases {
		if purchase.CustomerID == customerID {
			list = append(list, purchase.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

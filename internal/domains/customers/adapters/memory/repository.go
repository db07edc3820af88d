package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/customers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory customer persistence adapter.
type Repository struct {
	mu        sync.RWMutex
	customers map[int64]*domain.Customer
	nextID    int64
}

func NewRepository() *Repository {
	return &Repository{customers: map[int64]*domain.Customer{}}
}

func (r *Repository) Save(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	clone := customer.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.customers {
		if id != clone.ID && existing.Email == clone.Email {
			return nil, ports.ErrEmailTaken
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.customers[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return customer.Clone(), nil
}

func (r *Repository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.customers[id]
	return ok, nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *Repository) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, customer := range r.customers {
		if customer.Email == email {
			return customer.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}

// FindByNameContaining mirrors SQL LIKE '%name%' under a case-sensitive collation.
func (r *Repository) FindByNameContaining(_ context.Context, name string) ([]*domain.Customer, error) {
	return r.collect(func(c *domain.Customer) bool { return strings.Contains(c.Name, name) }), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Customer, error) {
	return r.collect(func(*domain.Customer) bool { return true }), nil
}

func (r *Repository) collect(keep func(*domain.Customer) bool) []*domain.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		if keep(customer) {
			list = append(list, customer.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

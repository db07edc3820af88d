package domain

import (
	"errors"
	"slices"
	"time"

	bookdomain "github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
)

var (
	ErrInvalidCustomer = errors.New("customer id is required")
	ErrNoBooks         = errors.New("at least one book is required")
)

// Purchase records a customer buying a set of books. Price is in cents.
type Purchase struct {
	ID         int64
	CustomerID int64
	BookIDs    []int64
	// Books is resolved at checkout and not persisted.
	Books     []*bookdomain.Book
	NFE       string
	Price     int64
	CreatedAt time.Time
}

// NewPurchase builds a purchase over books, collapsing duplicates and summing the price.
func NewPurchase(customerID int64, books []*bookdomain.Book, now time.Time) (*Purchase, error) {
	if customerID <= 0 {
		return nil, ErrInvalidCustomer
	}
	seen := make(map[int64]struct{}, len(books))
	p := &Purchase{CustomerID: customerID, CreatedAt: now}
	for _, book := range books {
		if book == nil {
			continue
		}
		if _, dup := seen[book.ID]; dup {
			continue
		}
		seen[book.ID] = struct{}{}
		p.Books = append(p.Books, book.Clone())
		p.BookIDs = append(p.BookIDs, book.ID)
		p.Price += book.Price
	}
	if len(p.BookIDs) == 0 {
		return nil, ErrNoBooks
	}
	return p, nil
}

// HasInvoice reports whether an NFE was already assigned.
func (p *Purchase) HasInvoice() bool {
	return p.NFE != ""
}

// Validate re-applies core invariants for persistence.
func (p *Purchase) Validate() error {
	if p.CustomerID <= 0 {
		return ErrInvalidCustomer
	}
	if len(p.BookIDs) == 0 {
		return ErrNoBooks
	}
	return nil
}

// Clone deep-copies the purchase, including resolved books.
func (p *Purchase) Clone() *Purchase {
	if p == nil {
		return nil
	}
	clone := *p
	clone.BookIDs = slices.Clone(p.BookIDs)
	if p.Books != nil {
		clone.Books = make([]*bookdomain.Book, 0, len(p.Books))
		for _, b := range p.Books {
			clone.Books = append(clone.Books, b.Clone())
		}
	}
	return &clone
}

// UniqueIDs drops repeated ids, keeping first-seen order.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

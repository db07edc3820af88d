package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrInvalidPrice  = errors.New("price must be greater than zero")
	ErrInvalidOwner  = errors.New("customer id is required")
	ErrInvalidStatus = errors.New("book status is invalid")
)

// Status tracks a book through its sale lifecycle.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusSold     Status = "SOLD"
	StatusCanceled Status = "CANCELED"
	StatusDeleted  Status = "DELETED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSold, StatusCanceled, StatusDeleted:
		return true
	}
	return false
}

// Book is a listing owned by a customer. Price is stored in cents.
type Book struct {
	ID         int64
	Name       string
	Price      int64
	Status     Status
	CustomerID int64
}

// NewBook builds an ACTIVE book.
func NewBook(name string, price int64, customerID int64) (*Book, error) {
	b := &Book{Status: StatusActive, CustomerID: customerID}
	if err := b.Rename(name); err != nil {
		return nil, err
	}
	if err := b.Reprice(price); err != nil {
		return nil, err
	}
	if customerID <= 0 {
		return nil, ErrInvalidOwner
	}
	return b, nil
}

func (b *Book) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	b.Name = name
	return nil
}

func (b *Book) Reprice(price int64) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	b.Price = price
	return nil
}

// Editable is false once a book was canceled or deleted.
func (b *Book) Editable() bool {
	return b.Status != StatusCanceled && b.Status != StatusDeleted
}

// Purchasable is true only for ACTIVE books.
func (b *Book) Purchasable() bool {
	return b.Status == StatusActive
}

func (b *Book) MarkSold() {
	b.Status = StatusSold
}

func (b *Book) MarkDeleted() {
	b.Status = StatusDeleted
}

// Validate re-applies core invariants for persistence.
func (b *Book) Validate() error {
	if err := b.Rename(b.Name); err != nil {
		return err
	}
	if err := b.Reprice(b.Price); err != nil {
		return err
	}
	if b.CustomerID <= 0 {
		return ErrInvalidOwner
	}
	if !b.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	clone := *b
	return &clone
}

// FormatPrice renders cents as a decimal string, e.g. 1050 -> "10.50".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookdomain "github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
)

func TestNewPurchase_DedupesAndSums(t *testing.T) {
	a := &bookdomain.Book{ID: 1, Price: 1000}
	b := &bookdomain.Book{ID: 2, Price: 550}

	p, err := NewPurchase(7, []*bookdomain.Book{a, b, a}, time.Unix(0, 0))
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, p.BookIDs)
	assert.Equal(t, int64(1550), p.Price)
	assert.False(t, p.HasInvoice())
}

func TestNewPurchase_Invariants(t *testing.T) {
	_, err := NewPurchase(0, []*bookdomain.Book{{ID: 1}}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidCustomer)

	_, err = NewPurchase(1, nil, time.Now())
	assert.ErrorIs(t, err, ErrNoBooks)
}

func TestPurchaseCompleted_SnapshotsPurchase(t *testing.T) {
	p, err := NewPurchase(7, []*bookdomain.Book{{ID: 1, Price: 10}}, time.Now())
	require.NoError(t, err)

	event := NewPurchaseCompleted(p, time.Now())
	p.NFE = "changed"
	p.Books[0].Name = "changed"

	assert.Equal(t, PurchaseCompletedEvent, event.EventName())
	assert.Empty(t, event.Purchase.NFE)
	assert.Empty(t, event.Purchase.Books[0].Name)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, UniqueIDs([]int64{3, 1, 3, 2, 1}))
}

package subscribers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookdomain "github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
)

type spyStock struct {
	books [][]*bookdomain.Book
}

func (s *spyStock) Purchase(_ context.Context, books []*bookdomain.Book) error {
	s.books = append(s.books, books)
	return nil
}

type spyUpdater struct {
	updated []*domain.Purchase
}

func (s *spyUpdater) Update(_ context.Context, p *domain.Purchase) (*domain.Purchase, error) {
	s.updated = append(s.updated, p)
	return p, nil
}

func event(nfe string) domain.PurchaseCompleted {
	p := &domain.Purchase{ID: 1, CustomerID: 2, BookIDs: []int64{3}, Books: []*bookdomain.Book{{ID: 3}}, NFE: nfe}
	return domain.NewPurchaseCompleted(p, time.Now())
}

func TestStockUpdate_PassesPurchasedBooks(t *testing.T) {
	stock := &spyStock{}
	require.NoError(t, NewStockUpdate(stock).Handle(context.Background(), event("")))

	require.Len(t, stock.books, 1)
	assert.Equal(t, int64(3), stock.books[0][0].ID)
}

func TestStockUpdate_RejectsForeignEvents(t *testing.T) {
	err := NewStockUpdate(&spyStock{}).Handle(context.Background(), domain.PurchaseCompleted{})
	assert.Error(t, err)
}

func TestInvoice_AssignsNFEOnce(t *testing.T) {
	updater := &spyUpdater{}
	inv := NewInvoice(updater)
	inv.newNFE = func() string { return "nfe-123" }
	ev := event("")

	require.NoError(t, inv.Handle(context.Background(), ev))
	require.NoError(t, inv.Handle(context.Background(), event("already")))

	require.Len(t, updater.updated, 1)
	assert.Equal(t, "nfe-123", updater.updated[0].NFE)
	assert.Empty(t, ev.Purchase.NFE)
}

package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/memory"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/ports"
	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
)

func TestFingerprintPurchase_IgnoresOrderAndDuplicates(t *testing.T) {
	a, err := FingerprintPurchase(ports.PurchaseRequest{CustomerID: 1, BookIDs: []int64{3, 1, 3}})
	require.NoError(t, err)
	b, err := FingerprintPurchase(ports.PurchaseRequest{CustomerID: 1, BookIDs: []int64{1, 3}})
	require.NoError(t, err)
	c, err := FingerprintPurchase(ports.PurchaseRequest{CustomerID: 2, BookIDs: []int64{1, 3}})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestCheckoutOnce_ReplaysAndRejectsMismatch(t *testing.T) {
	f := newFixture(t)
	buyer := f.customer(t, "buyer@mail.com")
	a := f.book(t, buyer.ID, 1000)
	b := f.book(t, buyer.ID, 300)
	publisher := &recordingPublisher{}
	svc := NewService(f.repo, f.customers, f.books, publisher, WithIdempotencyStore(memory.NewIdempotencyStore()))
	ctx := context.Background()

	first, err := svc.CheckoutOnce(ctx, "key-1", ports.PurchaseRequest{CustomerID: buyer.ID, BookIDs: []int64{a.ID}})
	require.NoError(t, err)

	replay, err := svc.CheckoutOnce(ctx, "key-1", ports.PurchaseRequest{CustomerID: buyer.ID, BookIDs: []int64{a.ID, a.ID}})
	require.NoError(t, err)
	assert.Equal(t, first.ID, replay.ID)
	assert.Len(t, publisher.events, 1)

	_, err = svc.CheckoutOnce(ctx, "key-1", ports.PurchaseRequest{CustomerID: buyer.ID, BookIDs: []int64{b.ID}})
	var conflict *apierrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "ML-1302", conflict.Code)

	listed, err := svc.ListByCustomer(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCheckoutOnce_WithoutKeyChecksOutEveryTime(t *testing.T) {
	f := newFixture(t)
	buyer := f.customer(t, "buyer@mail.com")
	a := f.book(t, buyer.ID, 1000)
	svc := NewService(f.repo, f.customers, f.books, nil, WithIdempotencyStore(memory.NewIdempotencyStore()))
	ctx := context.Background()

	_, err := svc.CheckoutOnce(ctx, "", ports.PurchaseRequest{CustomerID: buyer.ID, BookIDs: []int64{a.ID}})
	require.NoError(t, err)
	_, err = svc.CheckoutOnce(ctx, "", ports.PurchaseRequest{CustomerID: buyer.ID, BookIDs: []int64{a.ID}})
	require.NoError(t, err)

	listed, err := svc.ListByCustomer(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

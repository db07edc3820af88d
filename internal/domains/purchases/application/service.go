package application

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/ports"
	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
)

// Service orchestrates the purchases bounded context use cases.
type Service struct {
	repo      ports.Repository
	customers ports.CustomerDirectory
	books     ports.BookCatalog
	publisher ports.Publisher
	keys      ports.IdempotencyStore
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for CreatedAt and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIdempotencyStore enables replay of keyed checkouts.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.keys = store }
}

// NewService wires the purchases service. A nil publisher disables notifications.
func NewService(repo ports.Repository, customers ports.CustomerDirectory, books ports.BookCatalog, publisher ports.Publisher, opts ...Option) *Service {
	s := &Service{repo: repo, customers: customers, books: books, publisher: publisher, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Checkout resolves the buyer and the books, then records the purchase.
func (s *Service) Checkout(ctx context.Context, req ports.PurchaseRequest) (*domain.Purchase, error) {
	customer, err := s.customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, apierrors.NewBusinessValidation(apierrors.ML1101, customer.ID)
	}
	ids := domain.UniqueIDs(req.BookIDs)
	if len(ids) == 0 {
		return nil, mapError(domain.ErrNoBooks, 0)
	}
	books, err := s.books.FindAllByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[int64]bool, len(books))
	for _, book := range books {
		found[book.ID] = true
		if !book.Purchasable() {
			return nil, apierrors.NewBusinessValidation(apierrors.ML1201, book.ID)
		}
	}
	for _, id := range ids {
		if !found[id] {
			return nil, apierrors.NewNotFound(apierrors.ML1001, id)
		}
	}
	purchase, err := domain.NewPurchase(customer.ID, books, s.now())
	if err != nil {
		return nil, mapError(err, 0)
	}
	return s.CreatePurchase(ctx, purchase)
}

// CheckoutOnce records at most one purchase per key. A blank key or a missing
// store falls back to a plain checkout.
func (s *Service) CheckoutOnce(ctx context.Context, key string, req ports.PurchaseRequest) (*domain.Purchase, error) {
	if key == "" || s.keys == nil {
		return s.Checkout(ctx, req)
	}
	hash, err := FingerprintPurchase(req)
	if err != nil {
		return nil, err
	}
	existing, err := s.keys.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.RequestHash != hash {
			return nil, apierrors.NewConflict(apierrors.ML1302, key)
		}
		return s.FindByID(ctx, existing.PurchaseID)
	}
	purchase, err := s.Checkout(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := s.keys.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: hash, PurchaseID: purchase.ID}); err != nil {
		if errors.Is(err, ports.ErrIdempotencyConflict) {
			return nil, apierrors.NewConflict(apierrors.ML1302, key)
		}
		return nil, err
	}
	return purchase, nil
}

// CreatePurchase persists the purchase and announces it. Subscriber outcomes never reach the caller.
func (s *Service) CreatePurchase(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	if purchase == nil {
		return nil, errors.New("purchase is nil")
	}
	if err := purchase.Validate(); err != nil {
		return nil, mapError(err, purchase.ID)
	}
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = s.now()
	}
	saved, err := s.repo.Save(ctx, purchase)
	if err != nil {
		return nil, err
	}
	saved.Books = purchase.Books
	if s.publisher != nil {
		s.publisher.Publish(ctx, domain.NewPurchaseCompleted(saved, s.now()))
	}
	return saved, nil
}

// Update re-persists an existing purchase.
func (s *Service) Update(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	if purchase == nil {
		return nil, errors.New("purchase is nil")
	}
	if purchase.ID == 0 {
		return nil, mapError(ports.ErrNotFound, 0)
	}
	if err := purchase.Validate(); err != nil {
		return nil, mapError(err, purchase.ID)
	}
	saved, err := s.repo.Save(ctx, purchase)
	if err != nil {
		return nil, mapError(err, purchase.ID)
	}
	return saved, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	purchase, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, id)
	}
	return purchase, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Purchase, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

var _ ports.Service = (*Service)(nil)

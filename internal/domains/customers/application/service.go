package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/customers/ports"
)

// Service orchestrates the customers bounded context use cases.
type Service struct {
	repo     ports.Repository
	books    ports.BookReleaser
	hasher   ports.PasswordHasher
	sessions ports.SessionStore
	newToken func() string
}

type Option func(*Service)

// WithSessionStore persists login tokens.
func WithSessionStore(store ports.SessionStore) Option {
	return func(s *Service) { s.sessions = store }
}

// WithTokenGenerator overrides the bearer token source.
func WithTokenGenerator(fn func() string) Option {
	return func(s *Service) { s.newToken = fn }
}

// NewService wires the customers service with its collaborators.
func NewService(repo ports.Repository, books ports.BookReleaser, hasher ports.PasswordHasher, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		books:    books,
		hasher:   hasher,
		sessions: ports.NoopSessionStore,
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.sessions == nil {
		s.sessions = ports.NoopSessionStore
	}
	return s
}

// GetCustomers lists every customer, or those whose name contains the filter.
func (s *Service) GetCustomers(ctx context.Context, name *string) ([]*domain.Customer, error) {
	if name == nil {
		return s.repo.List(ctx)
	}
	return s.repo.FindByNameContaining(ctx, *name)
}

// CreateCustomer hashes the password and persists a new account.
func (s *Service) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	toSave := customer.Clone()
	toSave.ID = 0
	toSave.ApplyDefaults()
	if err := toSave.Validate(); err != nil {
		return nil, mapError(err, 0)
	}
	if s.hasher == nil || !s.hasher.IsHashed(toSave.Password) {
		if err := toSave.SetPassword(toSave.Password); err != nil {
			return nil, mapError(err, 0)
		}
	}
	if err := s.hashPassword(toSave); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, toSave)
	if err != nil {
		return nil, mapError(err, 0)
	}
	return saved, nil
}

// FindByID returns the customer or an ML-1102 not found error.
func (s *Service) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, id)
	}
	return customer, nil
}

// PutCustomer overwrites an existing customer.
func (s *Service) PutCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	exists, err := s.repo.Exists(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound(customer.ID)
	}
	if err := customer.Validate(); err != nil {
		return nil, mapError(err, customer.ID)
	}
	if err := s.hashPassword(customer); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, customer)
	if err != nil {
		return nil, mapError(err, customer.ID)
	}
	return saved, nil
}

// DeleteCustomer releases the customer's books and marks the account INACTIVE.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	customer, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if s.books != nil {
		if err := s.books.DeleteByCustomer(ctx, id); err != nil {
			return err
		}
	}
	customer.Deactivate()
	if _, err := s.repo.Save(ctx, customer); err != nil {
		return mapError(err, id)
	}
	return nil
}

// EmailAvailable reports whether no customer uses the email yet.
func (s *Service) EmailAvailable(ctx context.Context, email string) (bool, error) {
	taken, err := s.repo.ExistsByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// Authenticate checks credentials and issues a session token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.Customer, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", mapError(ports.ErrInvalidCredentials, 0)
	}
	customer, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, "", mapError(ports.ErrInvalidCredentials, 0)
		}
		return nil, "", err
	}
	if !customer.IsActive() || !s.hasher.Compare(customer.Password, password) {
		return nil, "", mapError(ports.ErrInvalidCredentials, 0)
	}
	token := s.newToken()
	if err := s.sessions.Save(ctx, token, customer.ID); err != nil {
		return nil, "", err
	}
	return customer, token, nil
}

// ResolveSession maps a bearer token back to an active customer.
func (s *Service) ResolveSession(ctx context.Context, token string) (*domain.Customer, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, mapError(ports.ErrSessionNotFound, 0)
	}
	id, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, mapError(err, 0)
	}
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrSessionNotFound, 0)
		}
		return nil, err
	}
	if !customer.IsActive() {
		return nil, mapError(ports.ErrSessionNotFound, 0)
	}
	return customer, nil
}

// Logout drops the session token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// hashPassword never re-hashes a stored hash.
func (s *Service) hashPassword(customer *domain.Customer) error {
	if s.hasher == nil || s.hasher.IsHashed(customer.Password) {
		return nil
	}
	hashed, err := s.hasher.Hash(customer.Password)
	if err != nil {
		return err
	}
	customer.Password = hashed
	return nil
}

var _ ports.Service = (*Service)(nil)

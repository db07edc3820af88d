package application

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/books/ports"
	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
	"github.com/Apurer/go-gin-bookstore/internal/shared/pagination"
)

// Service orchestrates the books bounded context use cases.
type Service struct {
	repo   ports.Repository
	owners ports.OwnerDirectory
}

// NewService wires the books service. owners may be nil when ownership is checked upstream.
func NewService(repo ports.Repository, owners ports.OwnerDirectory) *Service {
	return &Service{repo: repo, owners: owners}
}

// Create lists a new ACTIVE book for an existing customer.
func (s *Service) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	toSave := book.Clone()
	toSave.ID = 0
	toSave.Status = domain.StatusActive
	if err := toSave.Validate(); err != nil {
		return nil, mapError(err, 0)
	}
	if s.owners != nil {
		exists, err := s.owners.Exists(ctx, toSave.CustomerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apierrors.NewNotFound(apierrors.ML1102, toSave.CustomerID)
		}
	}
	return s.repo.Save(ctx, toSave)
}

func (s *Service) FindAll(ctx context.Context, page pagination.Pageable) (pagination.Page[*domain.Book], error) {
	return s.repo.FindAll(ctx, page.Normalize())
}

// FindActives pages through ACTIVE books only.
func (s *Service) FindActives(ctx context.Context, page pagination.Pageable) (pagination.Page[*domain.Book], error) {
	return s.repo.FindByStatus(ctx, domain.StatusActive, page.Normalize())
}

// FindByID returns the book or an ML-1001 not found error.
func (s *Service) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, id)
	}
	return book, nil
}

// Update applies a partial change unless the book was canceled or deleted.
func (s *Service) Update(ctx context.Context, id int64, changes ports.BookChanges) (*domain.Book, error) {
	book, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !book.Editable() {
		return nil, apierrors.NewConflict(apierrors.ML1002, book.Status)
	}
	if changes.Name != nil {
		if err := book.Rename(*changes.Name); err != nil {
			return nil, mapError(err, id)
		}
	}
	if changes.Price != nil {
		if err := book.Reprice(*changes.Price); err != nil {
			return nil, mapError(err, id)
		}
	}
	saved, err := s.repo.Save(ctx, book)
	if err != nil {
		return nil, mapError(err, id)
	}
	return saved, nil
}

// Delete soft-deletes a book.
func (s *Service) Delete(ctx context.Context, id int64) error {
	book, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	book.MarkDeleted()
	if _, err := s.repo.Save(ctx, book); err != nil {
		return mapError(err, id)
	}
	return nil
}

// DeleteByCustomer soft-deletes every book owned by the customer.
func (s *Service) DeleteByCustomer(ctx context.Context, customerID int64) error {
	books, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		return nil
	}
	for _, book := range books {
		book.MarkDeleted()
	}
	return s.repo.SaveAll(ctx, books)
}

func (s *Service) FindAllByIDs(ctx context.Context, ids []int64) ([]*domain.Book, error) {
	if len(ids) == 0 {
		return []*domain.Book{}, nil
	}
	return s.repo.FindAllByIDs(ctx, ids)
}

// Purchase flags every given book SOLD. Only the ids of books are used: the stored
// rows are reloaded so edits made since checkout survive. The caller's books are not mutated.
func (s *Service) Purchase(ctx context.Context, books []*domain.Book) error {
	ids := make([]int64, 0, len(books))
	for _, book := range books {
		if book != nil {
			ids = append(ids, book.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	current, err := s.repo.FindAllByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(current) == 0 {
		return nil
	}
	for _, book := range current {
		book.MarkSold()
	}
	return s.repo.SaveAll(ctx, current)
}

var _ ports.Service = (*Service)(nil)

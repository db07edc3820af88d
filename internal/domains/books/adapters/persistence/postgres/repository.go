package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/books/ports"
	"github.com/Apurer/go-gin-bookstore/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists books in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&bookRecord{})
	}
	return repo
}

type bookRecord struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name       string    `gorm:"column:name"`
	PriceCents int64     `gorm:"column:price_cents"`
	Status     string    `gorm:"column:status;type:varchar(16);index"`
	CustomerID int64     `gorm:"column:customer_id;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (bookRecord) TableName() string { return "books" }

// Save inserts a new book when ID is zero, otherwise upserts by id.
func (r *Repository) Save(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.New("book is nil")
	}
	record := toRecord(book)
	if err := upsert(r.db.WithContext(ctx), &record); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// SaveAll writes the books in one transaction.
func (r *Repository) SaveAll(ctx context.Context, books []*domain.Book) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, book := range books {
			if book == nil {
				continue
			}
			record := toRecord(book)
			if err := upsert(tx, &record); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsert(tx *gorm.DB, record *bookRecord) error {
	if record.ID != 0 {
		tx = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        record.Name,
				"price_cents": record.PriceCents,
				"status":      record.Status,
				"customer_id": record.CustomerID,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		})
	}
	return tx.Create(record).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record bookRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) FindAll(ctx context.Context, page pagination.Pageable) (pagination.Page[*domain.Book], error) {
	return r.page(ctx, page, "1 = 1")
}

func (r *Repository) FindByStatus(ctx context.Context, status domain.Status, page pagination.Pageable) (pagination.Page[*domain.Book], error) {
	return r.page(ctx, page, "status = ?", string(status))
}

func (r *Repository) FindByCustomer(ctx context.Context, customerID int64) ([]*domain.Book, error) {
	return r.find(ctx, "customer_id = ?", customerID)
}

func (r *Repository) FindAllByIDs(ctx context.Context, ids []int64) ([]*domain.Book, error) {
	if len(ids) == 0 {
		return []*domain.Book{}, nil
	}
	return r.find(ctx, "id IN ?", ids)
}

func (r *Repository) page(ctx context.Context, req pagination.Pageable, query string, args ...any) (pagination.Page[*domain.Book], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[*domain.Book]{}, err
	}
	req = req.Normalize()
	var total int64
	if err := r.db.WithContext(ctx).Model(&bookRecord{}).Where(query, args...).Count(&total).Error; err != nil {
		return pagination.Page[*domain.Book]{}, err
	}
	var records []bookRecord
	if err := r.db.WithContext(ctx).Where(query, args...).Order("id").
		Offset(req.Offset()).Limit(req.Size).Find(&records).Error; err != nil {
		return pagination.Page[*domain.Book]{}, err
	}
	return pagination.NewPage(toDomainList(records), req, total), nil
}

func (r *Repository) find(ctx context.Context, query string, args ...any) ([]*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []bookRecord
	if err := r.db.WithContext(ctx).Where(query, args...).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres book repository not configured")
	}
	return nil
}

func toRecord(book *domain.Book) bookRecord {
	return bookRecord{
		ID:         book.ID,
		Name:       book.Name,
		PriceCents: book.Price,
		Status:     string(book.Status),
		CustomerID: book.CustomerID,
	}
}

func (r bookRecord) toDomain() *domain.Book {
	return &domain.Book{
		ID:         r.ID,
		Name:       r.Name,
		Price:      r.PriceCents,
		Status:     domain.Status(r.Status),
		CustomerID: r.CustomerID,
	}
}

func toDomainList(records []bookRecord) []*domain.Book {
	books := make([]*domain.Book, 0, len(records))
	for i := range records {
		books = append(books, records[i].toDomain())
	}
	return books
}

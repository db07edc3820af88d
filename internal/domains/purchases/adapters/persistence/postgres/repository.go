package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists purchases in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&purchaseRecord{})
	}
	return repo
}

type purchaseRecord struct {
	ID         int64         `gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID int64         `gorm:"column:customer_id;index"`
	BookIDs    pq.Int64Array `gorm:"column:book_ids;type:bigint[]"`
	NFE        string        `gorm:"column:nfe"`
	PriceCents int64         `gorm:"column:price_cents"`
	CreatedAt  time.Time     `gorm:"column:created_at"`
	UpdatedAt  time.Time     `gorm:"column:updated_at"`
}

func (purchaseRecord) TableName() string { return "purchases" }

// Save inserts a new purchase when ID is zero, otherwise updates the stored row.
func (r *Repository) Save(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, errors.New("purchase is nil")
	}
	record := toRecord(purchase)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return r.GetByID(ctx, record.ID)
	}
	result := r.db.WithContext(ctx).Model(&purchaseRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"customer_id": record.CustomerID,
		"book_ids":    record.BookIDs,
		"nfe":         record.NFE,
		"price_cents": record.PriceCents,
		"updated_at":  gorm.Expr("NOW()"),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record purchaseRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Purchase, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []purchaseRecord
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	purchases := make([]*domain.Purchase, 0, len(records))
	for i := range records {
		purchases = append(purchases, records[i].toDomain())
	}
	return purchases, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres purchase repository not configured")
	}
	return nil
}

func toRecord(p *domain.Purchase) purchaseRecord {
	return purchaseRecord{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		BookIDs:    pq.Int64Array(p.BookIDs),
		NFE:        p.NFE,
		PriceCents: p.Price,
		CreatedAt:  p.CreatedAt,
	}
}

func (r purchaseRecord) toDomain() *domain.Purchase {
	return &domain.Purchase{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		BookIDs:    []int64(r.BookIDs),
		NFE:        r.NFE,
		Price:      r.PriceCents,
		CreatedAt:  r.CreatedAt,
	}
}

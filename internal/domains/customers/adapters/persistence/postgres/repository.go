package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/customers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&customerRecord{})
	}
	return repo
}

type customerRecord struct {
	ID        int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Name      string         `gorm:"column:name;index"`
	Email     string         `gorm:"column:email;uniqueIndex"`
	Password  string         `gorm:"column:password_hash"`
	Status    string         `gorm:"column:status;type:varchar(16);index"`
	Roles     pq.StringArray `gorm:"column:roles;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

// Save inserts a new customer when ID is zero, otherwise upserts by id.
func (r *Repository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	record := toRecord(customer)
	tx := r.db.WithContext(ctx)
	if record.ID != 0 {
		tx = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":          record.Name,
				"email":         record.Email,
				"password_hash": record.Password,
				"status":        record.Status,
				"roles":         record.Roles,
				"updated_at":    gorm.Expr("NOW()"),
			}),
		})
	}
	if err := tx.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ports.ErrEmailTaken
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "id = ?", id)
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByNameContaining relies on LIKE, which is case-sensitive in PostgreSQL.
// Wildcards in name match literally.
func (r *Repository) FindByNameContaining(ctx context.Context, name string) ([]*domain.Customer, error) {
	return r.find(ctx, `name LIKE ? ESCAPE '\'`, "%"+escapeLike(name)+"%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *Repository) List(ctx context.Context) ([]*domain.Customer, error) {
	return r.find(ctx, "1 = 1")
}

func (r *Repository) first(ctx context.Context, query string, args ...any) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&customerRecord{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) find(ctx context.Context, query string, args ...any) ([]*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []customerRecord
	if err := r.db.WithContext(ctx).Where(query, args...).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	customers := make([]*domain.Customer, 0, len(records))
	for i := range records {
		customers = append(customers, records[i].toDomain())
	}
	return customers, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres customer repository not configured")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "SQLSTATE 23505")
}

func toRecord(customer *domain.Customer) customerRecord {
	roles := make(pq.StringArray, 0, len(customer.Roles))
	for _, role := range customer.Roles {
		roles = append(roles, string(role))
	}
	return customerRecord{
		ID:       customer.ID,
		Name:     customer.Name,
		Email:    customer.Email,
		Password: customer.Password,
		Status:   string(customer.Status),
		Roles:    roles,
	}
}

func (r customerRecord) toDomain() *domain.Customer {
	roles := make([]domain.Role, 0, len(r.Roles))
	for _, role := range r.Roles {
		roles = append(roles, domain.Role(role))
	}
	return &domain.Customer{
		ID:       r.ID,
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Status:   domain.Status(r.Status),
		Roles:    roles,
	}
}

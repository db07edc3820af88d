package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts ahead of the adapters' own automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&customerRecord{},
		&bookRecord{},
		&purchaseRecord{},
		&sessionRecord{},
		&idempotencyRecord{},
	)
}

// Customer schema mirrors the customers Postgres adapter.
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

// Book schema mirrors the books Postgres adapter.
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

// Purchase schema mirrors the purchases Postgres adapter.
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

// Session schema mirrors the customer session store.
type sessionRecord struct {
	Token      string    `gorm:"primaryKey;column:token;size:512"`
	CustomerID int64     `gorm:"column:customer_id;index"`
	ExpiresAt  time.Time `gorm:"column:expires_at;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "customer_sessions" }

// Idempotency schema mirrors the purchases idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128;not null"`
	PurchaseID  int64     `gorm:"column:purchase_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "purchase_idempotency_keys" }

package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict is returned when a key is replayed with a different request.
var ErrIdempotencyConflict = errors.New("idempotency key reused with a different request")

// IdempotencyRecord binds a client supplied key to the purchase it produced.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	PurchaseID  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore remembers checkout keys so retried requests do not buy twice.
// Get returns nil, nil when the key is unknown.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}

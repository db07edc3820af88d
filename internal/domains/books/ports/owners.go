package ports

import "context"

// OwnerDirectory answers whether a customer id is on record.
type OwnerDirectory interface {
	Exists(ctx context.Context, customerID int64) (bool, error)
}

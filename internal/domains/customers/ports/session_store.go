package ports

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore abstracts bearer token persistence.
type SessionStore interface {
	Save(ctx context.Context, token string, customerID int64) error
	Resolve(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

// NoopSessionStore accepts writes and resolves nothing.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(_ context.Context, _ string, _ int64) error { return nil }
func (noopSessionStore) Resolve(_ context.Context, _ string) (int64, error) {
	return 0, ErrSessionNotFound
}
func (noopSessionStore) Delete(_ context.Context, _ string) error { return nil }

package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-bookstore/internal/domains/customers/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	ttl      time.Duration
	now      func() time.Time
	sessions sync.Map
}

type session struct {
	customerID int64
	expiresAt  time.Time
}

// NewSessionStore keeps tokens for ttl. A non-positive ttl never expires.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{ttl: ttl, now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, token string, customerID int64) error {
	entry := session{customerID: customerID}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.sessions.Store(strings.TrimSpace(token), entry)
	return nil
}

func (s *SessionStore) Resolve(_ context.Context, token string) (int64, error) {
	value, ok := s.sessions.Load(strings.TrimSpace(token))
	if !ok {
		return 0, ports.ErrSessionNotFound
	}
	entry := value.(session)
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.sessions.Delete(token)
		return 0, ports.ErrSessionNotFound
	}
	return entry.customerID, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.sessions.Delete(strings.TrimSpace(token))
	return nil
}

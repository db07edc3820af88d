package bookstoreserver

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	customerdomain "github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
)

const principalKey = "bookstore.principal"

// Principal is the authenticated caller attached to the gin context.
type Principal struct {
	CustomerID int64
	Roles      []customerdomain.Role
	Token      string
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	for _, role := range p.Roles {
		if role == customerdomain.RoleAdmin {
			return true
		}
	}
	return false
}

// SessionResolver maps a bearer token to the customer that owns it.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*customerdomain.Customer, error)
}

// Gate turns bearer tokens into a Principal.
type Gate struct {
	sessions SessionResolver
}

func NewGate(sessions SessionResolver) *Gate {
	return &Gate{sessions: sessions}
}

// Authenticate rejects requests without a valid `Authorization: Bearer <token>` header.
func (g *Gate) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" || g == nil || g.sessions == nil {
			respondError(c, apierrors.NewUnauthorized(""))
			return
		}
		customer, err := g.sessions.ResolveSession(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(principalKey, Principal{CustomerID: customer.ID, Roles: customer.Roles, Token: token})
		c.Next()
	}
}

// PrincipalFrom returns the caller set by Authenticate.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}

// AdminOnly lets only ADMIN callers through.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok || !principal.IsAdmin() {
			respondError(c, apierrors.NewForbidden())
			return
		}
		c.Next()
	}
}

// OwnResourceOnly restricts non-admin callers to the customer named by the path parameter.
func OwnResourceOnly(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			respondError(c, apierrors.NewForbidden())
			return
		}
		if principal.IsAdmin() {
			c.Next()
			return
		}
		id, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || id != principal.CustomerID {
			respondError(c, apierrors.NewForbidden())
			return
		}
		c.Next()
	}
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewRateLimiter allows perMinute requests per client with the given burst.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow consumes a token for key.
func (l *RateLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// Middleware answers 429 once a client exhausts its bucket.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			respondError(c, apierrors.NewTooManyRequests())
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

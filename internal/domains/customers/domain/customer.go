package domain

import (
	"errors"
	"slices"
	"strings"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrEmptyPassword = errors.New("password is required")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")
	ErrInvalidStatus = errors.New("customer status is invalid")
)

// Status is the lifecycle flag of a customer account.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Role grants access to guarded routes.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

const minPasswordLength = 6

// Customer is a bookstore account holder. Deleted customers stay on record as INACTIVE.
type Customer struct {
	ID       int64
	Name     string
	Email    string
	Password string
	Status   Status
	Roles    []Role
}

// NewCustomer builds an active customer with the default CUSTOMER role.
func NewCustomer(name, email, password string) (*Customer, error) {
	c := &Customer{Status: StatusActive, Roles: []Role{RoleCustomer}}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	if err := c.ChangeEmail(email); err != nil {
		return nil, err
	}
	if err := c.SetPassword(password); err != nil {
		return nil, err
	}
	return c, nil
}

// Rename trims and validates the display name.
func (c *Customer) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	c.Name = name
	return nil
}

// ChangeEmail trims and validates the email address.
func (c *Customer) ChangeEmail(email string) error {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ErrInvalidEmail
	}
	c.Email = email
	return nil
}

// SetPassword stores a plaintext or already hashed password.
func (c *Customer) SetPassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	c.Password = password
	return nil
}

// Deactivate marks the account INACTIVE. Repeated calls keep it INACTIVE.
func (c *Customer) Deactivate() {
	c.Status = StatusInactive
}

func (c *Customer) IsActive() bool {
	return c.Status == StatusActive
}

func (c *Customer) HasRole(role Role) bool {
	return slices.Contains(c.Roles, role)
}

func (c *Customer) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}

// Grant adds a role once.
func (c *Customer) Grant(role Role) {
	if !c.HasRole(role) {
		c.Roles = append(c.Roles, role)
	}
}

// ApplyDefaults fills status and roles for freshly registered accounts.
func (c *Customer) ApplyDefaults() {
	if c.Status == "" {
		c.Status = StatusActive
	}
	if len(c.Roles) == 0 {
		c.Roles = []Role{RoleCustomer}
	}
}

// Validate re-applies core invariants for persistence.
func (c *Customer) Validate() error {
	if err := c.Rename(c.Name); err != nil {
		return err
	}
	if err := c.ChangeEmail(c.Email); err != nil {
		return err
	}
	if strings.TrimSpace(c.Password) == "" {
		return ErrEmptyPassword
	}
	switch c.Status {
	case StatusActive, StatusInactive:
	default:
		return ErrInvalidStatus
	}
	return nil
}

// Clone returns a deep copy safe to hand across goroutines.
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Roles = slices.Clone(c.Roles)
	return &clone
}

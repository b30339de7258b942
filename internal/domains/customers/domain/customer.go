package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName    = errors.New("customer name is required")
	ErrInvalidEmail = errors.New("customer email must contain '@'")
)

// Customer is a billing contact referenced by orders.
type Customer struct {
	ID          int64
	Name        string
	Email       string
	Phone       string
	GSTIN       string
	CompanyName string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate enforces the customer invariants.
func (c *Customer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrEmptyName
	}
	c.Email = strings.TrimSpace(c.Email)
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

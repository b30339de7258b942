package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultRole is assigned to accounts created without an explicit role.
const DefaultRole = "user"

var (
	ErrEmptyName    = errors.New("user name is required")
	ErrEmptyEmail   = errors.New("user email is required")
	ErrInvalidEmail = errors.New("user email must contain '@'")
	ErrWeakPassword = errors.New("password must be at least 4 characters")
)

// User is a back-office account. PasswordHash is empty for accounts relying
// on an external identity provider.
type User struct {
	ID           int64
	Name         string
	Email        string
	Role         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetPassword hashes and stores the password with bcrypt.
func (u *User) SetPassword(password string) error {
	password = strings.TrimSpace(password)
	if len(password) < 4 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the supplied credentials with the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Validate enforces the account invariants and defaults the role.
func (u *User) Validate() error {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return ErrEmptyName
	}
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(u.Role) == "" {
		u.Role = DefaultRole
	}
	return nil
}

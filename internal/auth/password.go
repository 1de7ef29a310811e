package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt work factor for stored account passwords.
const DefaultPasswordCost = 12

// PasswordHasher hashes and compares account passwords with bcrypt.
type PasswordHasher struct {
	cost      int
	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordHasher builds a hasher; a cost outside bcrypt's range falls back to DefaultPasswordCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted bcrypt hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether password matches hash.
func (h *PasswordHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CompareMissing spends the same effort as Compare when no account exists, then reports false.
func (h *PasswordHasher) CompareMissing(password string) bool {
	h.dummyOnce.Do(func() {
		hashed, err := bcrypt.GenerateFromPassword([]byte("portal-missing-account"), h.cost)
		if err == nil {
			h.dummy = hashed
		}
	})
	if h.dummy != nil {
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
	}
	return false
}

// IsPasswordTooLong reports whether err came from bcrypt's length limit.
func IsPasswordTooLong(err error) bool {
	return errors.Is(err, bcrypt.ErrPasswordTooLong)
}

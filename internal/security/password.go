package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordMismatch = errors.New("password mismatch")

// HashPassword hashes a plain text password with bcrypt. Used to produce
// ADMIN_PASSWORD_HASH values.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// PasswordChecker compares candidates against one configured bcrypt hash.
type PasswordChecker struct {
	hash []byte
}

// NewPasswordChecker rejects anything that is not a bcrypt hash so a
// misconfigured deployment fails at startup instead of on every login.
func NewPasswordChecker(hash string) (*PasswordChecker, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}

	return &PasswordChecker{hash: []byte(hash)}, nil
}

func (c *PasswordChecker) Check(plain string) error {
	err := bcrypt.CompareHashAndPassword(c.hash, []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// Package auth guards the admin area: a single shared password and the
// signed session cookie issued once it has been entered.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/irielink/internal/apperr"
)

// maxPasswordLen is the longest input bcrypt hashes without truncating.
const maxPasswordLen = 72

// ErrEmptyPassword is returned when no admin password is configured.
var ErrEmptyPassword = errors.New("admin password must not be empty")

// ErrInvalidPassword is returned by Authenticate for a wrong password.
var ErrInvalidPassword = apperr.New(apperr.CodeAuthFailure, "invalid password")

// Gate verifies the shared admin password. Only a bcrypt hash is kept in memory.
type Gate struct {
	hash []byte
}

// NewGate hashes the configured admin password.
func NewGate(password string) (*Gate, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if len(password) > maxPasswordLen {
		return nil, fmt.Errorf("admin password longer than %d bytes", maxPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing admin password: %w", err)
	}
	return &Gate{hash: hash}, nil
}

// Verify reports whether submitted is exactly the configured password.
func (g *Gate) Verify(submitted string) bool {
	if submitted == "" || len(submitted) > maxPasswordLen {
		return false
	}
	return bcrypt.CompareHashAndPassword(g.hash, []byte(submitted)) == nil
}

// Authenticate is Verify as an error: nil for the configured password,
// ErrInvalidPassword for anything else.
func (g *Gate) Authenticate(submitted string) error {
	if !g.Verify(submitted) {
		return ErrInvalidPassword
	}
	return nil
}

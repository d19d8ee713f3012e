package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrCannotHash marks a failure of the hashing function itself. It is never
// a credentials error.
var ErrCannotHash = errors.New("cannot hash password")

// PasswordHasher hashes and verifies passwords with bcrypt. bcrypt salts
// every digest, so hashing the same input twice yields different strings.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using the given bcrypt cost. Costs
// outside bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt digest of plain. Errors wrap both ErrCannotHash and
// the underlying bcrypt error (e.g. bcrypt.ErrPasswordTooLong).
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCannotHash, err)
	}
	return string(b), nil
}

// Verify safely compares a bcrypt digest and a plain password.
func (h *PasswordHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

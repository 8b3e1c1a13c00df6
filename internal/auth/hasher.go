package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for password hashing. Deliberately slow to
// resist brute force.
const bcryptCost = 12

// Hasher provides one-way salted password hashing and constant-time
// verification, wrapping bcrypt with a fixed work factor.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the production work factor.
func NewHasher() *Hasher {
	return &Hasher{cost: bcryptCost}
}

// NewHasherWithCost creates a Hasher with an explicit work factor. Tests use
// a low cost to stay fast.
func NewHasherWithCost(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash produces a salted one-way hash of plaintext. It fails only on an
// internal primitive error, never on input content.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify compares plaintext against a stored hash in constant time. It
// returns (false, nil) on a mismatch without revealing why, and an error
// only when the stored hash is malformed.
func (h *Hasher) Verify(plaintext, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}

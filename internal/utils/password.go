package utils

import (
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// DefaultBcryptCost is the work factor used unless configured otherwise
const DefaultBcryptCost = 12

// MaxPasswordBytes is how much of a password bcrypt looks at. Longer
// passwords are cut to this prefix on both hashing and verification.
const MaxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt at a fixed cost
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost, falling back to DefaultBcryptCost when cost is out of range
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Cost returns the configured work factor
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt digest of password
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches digest. A malformed digest is a plain mismatch.
func (h *Hasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), bcryptInput(password)) == nil
}

func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}

// Package auth holds the credential primitives: password hashing and voucher
// payload signing.
package auth

import "golang.org/x/crypto/bcrypt"

// BcryptHasher hashes and matches account passwords.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Match reports whether password corresponds to hash. Malformed hashes never
// match.
func (h *BcryptHasher) Match(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

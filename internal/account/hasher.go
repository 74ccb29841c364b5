package account

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a password into its stored form and checks candidates against it.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(stored, password string) bool
}

// PlainHasher stores passwords as given. It keeps the stored users and
// session records readable by clients that expect the plain form.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return password, nil }

func (PlainHasher) Compare(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// BcryptHasher stores bcrypt hashes.
type BcryptHasher struct {
	Cost int // 0 means bcrypt.DefaultCost
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (BcryptHasher) Compare(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

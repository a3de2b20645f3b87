package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/isdelr/tasktracker/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a password into its stored form and checks a
// candidate password against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}

// BcryptHasher stores salted bcrypt hashes. Passwords are digested with
// SHA-256 first so input of any length fits bcrypt's 72-byte limit.
type BcryptHasher struct {
	Cost int
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// Hash returns the bcrypt hash of password.
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash.
func (h BcryptHasher) Verify(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), prehash(password)) == nil
}

// PlainHasher stores passwords verbatim. It exists so data files written
// by older deployments keep working and must not be used for new ones.
type PlainHasher struct{}

// Hash returns password unchanged.
func (PlainHasher) Hash(password string) (string, error) {
	return password, nil
}

// Verify compares in constant time.
func (PlainHasher) Verify(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// NewPasswordHasher returns the hasher for a PASSWORD_STORAGE mode.
func NewPasswordHasher(mode string) (PasswordHasher, error) {
	switch mode {
	case config.PasswordStorageBcrypt:
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	case config.PasswordStoragePlain:
		return PlainHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password storage mode %q", mode)
	}
}

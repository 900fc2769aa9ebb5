// Package crypto hashes guest passwords and produces the flash cookie secret.
package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced at sign-up.
const MinPasswordLength = 8

const (
	bcryptCost   = 12
	secretLength = 32
)

// bcrypt ignores everything past 72 bytes.
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	return string(hash), err
}

// CheckPassword reports whether password matches a stored hash.
// An empty or malformed hash never matches.
func CheckPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateSessionSecret returns random bytes for signing the flash cookie
// when no session secret is configured. Cookies do not survive a restart then.
func GenerateSessionSecret() ([]byte, error) {
	b := make([]byte, secretLength)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	return b, nil
}

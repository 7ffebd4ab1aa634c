// Package password hashes account passwords with argon2id and still accepts
// bcrypt hashes written by earlier deployments.
package password

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

var ErrMismatch = errors.New("password does not match")

func Hash(plain string) (string, error) {
	argon := argon2.DefaultConfig()
	encoded, err := argon.HashEncoded([]byte(plain))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(encoded), nil
}

// Verify reports whether plain matches hash. needsRehash is true when the
// stored hash uses the legacy bcrypt format.
func Verify(plain, hash string) (needsRehash bool, err error) {
	if IsLegacy(hash) {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
			return false, ErrMismatch
		}
		return true, nil
	}

	ok, err := argon2.VerifyEncoded([]byte(plain), []byte(hash))
	if err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return false, ErrMismatch
	}
	return false, nil
}

func IsLegacy(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

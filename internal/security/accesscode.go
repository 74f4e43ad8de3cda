package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashAccessCode hashes the teacher access code for storage
func HashAccessCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash access code: %w", err)
	}
	return string(hash), nil
}

// CheckAccessCode reports whether the supplied code matches the stored hash
func CheckAccessCode(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

package auth

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor used for every stored digest. Changing
// it only affects newly hashed passwords; verification reads the cost from
// the digest itself.
const bcryptCost = 12

// HashPassword derives a salted one-way digest from a plaintext password.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext matches the stored digest.
// Any mismatch or malformed digest yields false; callers cannot tell the
// two apart, which keeps the check fail-closed.
func VerifyPassword(plaintext string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// MeetsStrengthPolicy reports whether a password has at least 8 characters
// and contains uppercase, lowercase, digit, and symbol classes. Evaluated
// only at registration time; stored digests are never re-checked.
func MeetsStrengthPolicy(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSymbol
}

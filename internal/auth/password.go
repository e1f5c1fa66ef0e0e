package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for password hashing.
const BcryptCost = bcrypt.DefaultCost

// HashPassword hashes a plaintext password with a fresh random salt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
// A malformed stored hash is a mismatch, not an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

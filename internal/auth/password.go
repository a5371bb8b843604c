package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost keeps verification in the tens of milliseconds.
const bcryptCost = 10

// HashPassword hashes a plaintext password for storage. The salt is random
// per call, so hashing the same input twice yields different digests.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash. A malformed
// hash fails closed (false), never open.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

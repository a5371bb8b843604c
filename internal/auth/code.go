package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateCode returns a 6-digit confirmation/reset code drawn uniformly from
// crypto/rand. The code carries no expiry; the token store enforces the TTL.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

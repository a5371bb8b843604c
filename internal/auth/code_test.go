package auth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_Format(t *testing.T) {
	sixDigits := regexp.MustCompile(`^\d{6}$`)

	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
	}
}

func TestGenerateCode_NotConstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		seen[code] = true
	}
	// 50 draws from a million values colliding down to one would mean a
	// broken generator.
	assert.Greater(t, len(seen), 1)
}

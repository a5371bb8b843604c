package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)

	assert.True(t, CheckPassword("pw123456", hash))
	assert.False(t, CheckPassword("pw123457", hash))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("same-input")
	require.NoError(t, err)
	h2, err := HashPassword("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword("same-input", h1))
	assert.True(t, CheckPassword("same-input", h2))
}

func TestCheckPassword_MalformedHashFailsClosed(t *testing.T) {
	assert.False(t, CheckPassword("anything", "not-a-bcrypt-digest"))
	assert.False(t, CheckPassword("anything", ""))
}

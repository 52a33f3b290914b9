package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/univia-erp/univia-erp/internal/auth"
	_ "github.com/univia-erp/univia-erp/testing"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, auth.VerifyPassword("correct horse battery staple", hash))
	assert.False(t, auth.VerifyPassword("wrong password", hash))
}

func TestPasswordAtBcryptLimit(t *testing.T) {
	exactly72 := strings.Repeat("a", 72)
	hash, err := auth.HashPassword(exactly72)
	require.NoError(t, err)

	assert.True(t, auth.VerifyPassword(exactly72, hash))
	assert.False(t, auth.VerifyPassword(strings.Repeat("a", 71), hash))
}

func TestPasswordBeyondBcryptLimit(t *testing.T) {
	long := strings.Repeat("p", 200)
	hash, err := auth.HashPassword(long)
	require.NoError(t, err)

	assert.True(t, auth.VerifyPassword(long, hash))
	// A different over-long password must not collide.
	assert.False(t, auth.VerifyPassword(strings.Repeat("q", 200), hash))
}

func TestPasswordMultibyteLengthIsCountedInBytes(t *testing.T) {
	// 25 four-byte runes encode to 100 bytes and must take the digest path.
	long := strings.Repeat("\U0001F393", 25)
	hash, err := auth.HashPassword(long)
	require.NoError(t, err)

	assert.True(t, auth.VerifyPassword(long, hash))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, auth.VerifyPassword("whatever", "not-a-bcrypt-hash"))
	assert.False(t, auth.VerifyPassword("whatever", ""))
}

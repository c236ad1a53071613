package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("pw1")
	require.NoError(t, err)
	require.NotEqual(t, "pw1", h)

	assert.True(t, CheckPassword(h, "pw1"))
	assert.False(t, CheckPassword(h, "wrongpw"))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	assert.False(t, CheckPassword("plaintext-password", "plaintext-password"))
}

func TestCheckAgainstDummy_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		CheckAgainstDummy("anything")
		CheckAgainstDummy("")
	})
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("p", 80))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

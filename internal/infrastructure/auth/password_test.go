package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery-1")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct-horse-battery-1", hash)

	assert.NoError(t, VerifyPassword(hash, "correct-horse-battery-1"))
	assert.ErrorIs(t, VerifyPassword(hash, "wrong-password-2"), ErrPasswordMismatch)
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.ErrorIs(t, ValidatePasswordStrength("short1"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePasswordStrength(strings.Repeat("a1", 40)), ErrPasswordTooLong)
	assert.ErrorIs(t, ValidatePasswordStrength("onlyletters"), ErrPasswordTooWeak)
	assert.ErrorIs(t, ValidatePasswordStrength("12345678"), ErrPasswordTooWeak)
	assert.NoError(t, ValidatePasswordStrength("letters123"))
}

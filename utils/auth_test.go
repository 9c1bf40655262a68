package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)

	assert.True(t, CheckPasswordHash("password123", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}

func TestGenerateAndValidateJWT(t *testing.T) {
	InitAuth("test-secret")

	token, err := GenerateJWT(42, "amelia@example.org")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "amelia@example.org", claims.Email)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	InitAuth("test-secret")

	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	InitAuth("one-secret")
	token, err := GenerateJWT(1, "amelia@example.org")
	require.NoError(t, err)

	InitAuth("another-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

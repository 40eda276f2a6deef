package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateJWT(42, secret, time.Hour)
	require.NoError(t, err)

	id, err := ValidateToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT(1, secret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, []byte("other"))
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = ValidateToken(token, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = ValidateToken(token, secret)
	assert.Error(t, err)
}

func TestGenerateRejectsZeroUser(t *testing.T) {
	_, err := GenerateJWT(0, secret, time.Hour)
	assert.Error(t, err)
}

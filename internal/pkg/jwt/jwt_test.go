package jwt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "ADMINISTRATOR", testSecret, 5)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ADMINISTRATOR", claims.Role)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "CUSTOMER", testSecret, 5)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "another-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenTampered(t *testing.T) {
	token, err := GenerateAccessToken(1, "CUSTOMER", testSecret, 5)
	require.NoError(t, err)

	// Flip a character in the signature segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = ValidateAccessToken(tampered, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(1, "CUSTOMER", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAccessTokenMalformed(t *testing.T) {
	_, err := ValidateAccessToken("not-a-jwt", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ValidateAccessToken("", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, "token-id-1", testSecret, 2)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "token-id-1", claims.TokenID)
}

func TestRefreshTokenNotValidAsAccessSecret(t *testing.T) {
	// Refresh tokens are signed with their own secret; an access token
	// validated against the refresh secret must fail.
	access, err := GenerateAccessToken(7, "CUSTOMER", "access-secret", 5)
	require.NoError(t, err)

	_, err = ValidateRefreshToken(access, "refresh-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshTokenExpired(t *testing.T) {
	token, err := GenerateRefreshToken(7, "token-id-2", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateRefreshToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWT = JWTConfig{Secret: "test-secret", Issuer: "cinema-backoffice"}

func TestAccessTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	tok, err := NewAccessToken(testJWT, userID, "staff@cinema.com", "STAFF", 2*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(2*time.Hour), tok.ExpiresAt)

	claims, err := ParseAccessToken(testJWT, tok.Token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, id)
	assert.Equal(t, "STAFF", claims.Role)
	assert.Equal(t, "staff@cinema.com", claims.Email)
}

func TestParseAccessTokenRejects(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC()

	expired, err := NewAccessToken(testJWT, userID, "a@b.c", "ADMIN", time.Minute, now.Add(-time.Hour))
	require.NoError(t, err)

	otherSecret, err := NewAccessToken(JWTConfig{Secret: "other", Issuer: testJWT.Issuer}, userID, "a@b.c", "ADMIN", time.Hour, now)
	require.NoError(t, err)

	otherIssuer, err := NewAccessToken(JWTConfig{Secret: testJWT.Secret, Issuer: "someone-else"}, userID, "a@b.c", "ADMIN", time.Hour, now)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": userID.String(), "exp": now.Add(time.Hour).Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired.Token,
		"other secret": otherSecret.Token,
		"other issuer": otherIssuer.Token,
		"alg none":     unsigned,
		"garbage":      "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAccessToken(testJWT, token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken()
	require.NoError(t, err)
	b, err := NewRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a, 96)
	assert.NotEqual(t, a, b)
	assert.Equal(t, HashRefreshToken(a), HashRefreshToken(a))
	assert.Len(t, HashRefreshToken(a), 64)
	assert.NotEqual(t, a, HashRefreshToken(a))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("staff123")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("staff123", hash))
	assert.False(t, CheckPasswordHash("staff124", hash))
}

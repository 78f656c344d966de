package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankdesk/bankdesk/internal/domain"
)

func signedToken(t *testing.T, subject, role string, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("remote-only-secret"))
	require.NoError(t, err)
	return token
}

func TestInspectToken(t *testing.T) {
	expiry := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	token := signedToken(t, "alice", "ADMIN", expiry)

	// The client has no signing key; the claims must still be readable.
	info, err := InspectToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{Username: "alice", Role: domain.RoleAdmin}, info.Identity)
	assert.True(t, expiry.Equal(info.ExpiresAt))
	assert.False(t, info.Expired(time.Now()))
}

func TestInspectToken_Expired(t *testing.T) {
	token := signedToken(t, "bob", "USER", time.Now().Add(-time.Hour))

	info, err := InspectToken(token)
	require.NoError(t, err)
	assert.True(t, info.Expired(time.Now()))
}

func TestInspectToken_Garbage(t *testing.T) {
	_, err := InspectToken("not-a-token")
	assert.Error(t, err)
}

func TestInspectToken_MissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(time.Now())}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	assert.NoError(t, err)

	_, err = InspectToken(token)
	assert.Error(t, err)
}

package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bankdesk/bankdesk/internal/domain"
)

// Claims mirrors the payload the identity service signs into its tokens:
// the username as subject plus a role claim.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenInfo is what the client can read out of a bearer token without the
// signing key. The gateway remains the authority on token validity; this
// exists so the presentation layer can show who is logged in and warn
// before expiry.
type TokenInfo struct {
	Identity  domain.Identity
	ExpiresAt time.Time
}

// InspectToken decodes the claims of a token without verifying its
// signature. The client never holds the signing key, so a verified parse
// is not possible here.
func InspectToken(token string) (TokenInfo, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, err
	}
	if claims.Subject == "" {
		return TokenInfo{}, errors.New("token has no subject")
	}

	info := TokenInfo{
		Identity: domain.Identity{
			Username: claims.Subject,
			Role:     domain.Role(claims.Role),
		},
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// Expired reports whether the token carried an expiry in the past.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && t.ExpiresAt.Before(now)
}

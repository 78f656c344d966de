package accountops

import (
	"time"

	"github.com/google/uuid"
)

// grantTTL bounds how long a verified PIN authorizes the destructive call.
const grantTTL = 5 * time.Minute

// PinGrant is proof that the transaction PIN was verified against the
// identity service. Only VerifyPin constructs a live grant, so the
// destructive account-closure call is statically unreachable without one.
// The zero value is not a valid grant.
type PinGrant struct {
	id       uuid.UUID
	username string
	issuedAt time.Time
	verified bool
}

// Username returns the identity the PIN was verified for.
func (g PinGrant) Username() string {
	return g.username
}

// usable reports whether the grant is live at the given instant.
func (g PinGrant) usable(now time.Time) bool {
	return g.verified && now.Sub(g.issuedAt) <= grantTTL
}

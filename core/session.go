package core

import "time"

// DefaultSessionTTL is the fixed session lifetime. Sessions are stateless and
// cannot be revoked early; logout is client-side only.
const DefaultSessionTTL = 2 * time.Hour

// SessionClaims is the verified content of a session token. Validity is
// determined purely by signature and expiry; there is no server-side session
// record.
type SessionClaims struct {
	IdentityID int64
	Method     AuthMethod
	Role       Role
	TokenID    string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

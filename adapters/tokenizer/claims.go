package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AudienceSession tags session tokens so other token-shaped strings are never
// accepted as sessions.
const AudienceSession = "session:access"

// SessionClaims combines standard claims with the study's session fields.
type SessionClaims struct {
	jwt.RegisteredClaims
	IdentityID int64  `json:"uid"`
	Method     string `json:"auth_method"`
	Role       string `json:"role"`
}

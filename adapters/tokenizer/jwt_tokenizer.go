package tokenizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/csec08/authlab/core"
)

// JWTTokenizer implements the session issuer with HMAC-signed JWTs. Sessions
// are stateless: validity is signature plus expiry, nothing server-side.
type JWTTokenizer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTTokenizer creates a tokenizer signing with the given server secret.
// Non-positive TTLs fall back to the fixed 2-hour session lifetime.
func NewJWTTokenizer(secret []byte, ttl time.Duration) *JWTTokenizer {
	if ttl <= 0 {
		ttl = core.DefaultSessionTTL
	}
	return &JWTTokenizer{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs {identity_id, method, role, iat, exp} with HS256.
func (j *JWTTokenizer) Issue(identity *core.Identity, method core.AuthMethod) (string, error) {
	now := j.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{AudienceSession},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		IdentityID: identity.ID,
		Method:     string(method),
		Role:       string(identity.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, audience and expiry. Expiry yields a
// TOKEN_EXPIRED fault; any other defect, including tampering or an unexpected
// signing method, yields INVALID_TOKEN. A partial claim set is never
// returned.
func (j *JWTTokenizer) Validate(tokenStr string) (*core.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithAudience(AudienceSession), jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.NewFault(core.KindTokenExpired)
		}
		return nil, core.NewFault(core.KindInvalidToken)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, core.NewFault(core.KindInvalidToken)
	}

	return &core.SessionClaims{
		IdentityID: claims.IdentityID,
		Method:     core.AuthMethod(claims.Method),
		Role:       core.Role(claims.Role),
		TokenID:    claims.ID,
		IssuedAt:   claims.IssuedAt.Time,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

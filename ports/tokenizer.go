package ports

import "github.com/csec08/authlab/core"

// SessionIssuer mints and validates signed, time-boxed session tokens.
type SessionIssuer interface {
	// Issue signs a session token for a successful outcome.
	Issue(identity *core.Identity, method core.AuthMethod) (string, error)

	// Validate verifies signature and expiry. Tampering or expiry yields a
	// TOKEN_EXPIRED or INVALID_TOKEN fault, never a partial claim set.
	Validate(token string) (*core.SessionClaims, error)
}

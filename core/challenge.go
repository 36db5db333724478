package core

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// DefaultChallengeTTL is how long an issued challenge stays signable.
const DefaultChallengeTTL = 5 * time.Minute

// nonceBytes gives 64 hex characters of nonce, 256 bits of entropy.
const nonceBytes = 32

// Challenge is a single-use nonce issued for one wallet address. At most one
// unused challenge exists per address at any time; issuing a new one
// invalidates prior unused ones.
type Challenge struct {
	Address   string    `json:"address"` // checksummed
	Nonce     string    `json:"nonce"`   // hex-encoded
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

// NewChallenge generates a challenge for a checksummed address.
func NewChallenge(address string, ttl time.Duration, now time.Time) (*Challenge, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return &Challenge{
		Address:   address,
		Nonce:     hex.EncodeToString(buf),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Expired reports whether the challenge is past its expiry at the given time.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// SigningMessage rebuilds the exact human-readable message the wallet signs.
// Verification reconstructs this from the stored nonce and issue time, so the
// format is part of the protocol: changing it invalidates outstanding
// challenges.
func (c *Challenge) SigningMessage() string {
	return SigningMessage(c.Address, c.Nonce, c.IssuedAt)
}

// SigningMessage formats the challenge message for a given address, nonce and
// issue time. Only a truncated nonce prefix is shown to keep the wallet
// prompt readable; the full nonce stays server-side.
func SigningMessage(address, nonce string, issuedAt time.Time) string {
	prefix := nonce
	if len(prefix) > 16 {
		prefix = prefix[:16]
	}

	return fmt.Sprintf(
		"Sign in to the CSEC08 Research Portal\n\n"+
			"This signature proves you control this wallet:\n%s\n\n"+
			"Challenge: %s...\n"+
			"Timestamp: %s\n\n"+
			"This signature cannot be used to access your funds.",
		address, prefix, issuedAt.UTC().Format(time.RFC3339),
	)
}

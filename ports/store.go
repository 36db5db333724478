package ports

import (
	"context"

	"github.com/csec08/authlab/core"
)

// ChallengeStore issues and consumes single-use challenges. Implementations
// must make Issue atomic per address (no two concurrently valid challenges)
// and Consume exactly-once (a second consume of the same challenge fails
// NONCE_NOT_FOUND).
type ChallengeStore interface {
	// Issue replaces any unused challenge for the address with a fresh one.
	// The address is already checksummed by the caller.
	Issue(ctx context.Context, address string) (*core.Challenge, error)

	// Consume returns the newest unused challenge for the address and flips
	// its used flag. Fails with a NONCE_NOT_FOUND fault when none exists and
	// NONCE_EXPIRED when the challenge is past expiry; expired records are
	// left in place for the audit trail.
	Consume(ctx context.Context, address string) (*core.Challenge, error)
}

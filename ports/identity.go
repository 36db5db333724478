package ports

import (
	"context"
	"errors"

	"github.com/csec08/authlab/core"
)

// ErrIdentityNotFound is returned by lookups that match no identity.
var ErrIdentityNotFound = errors.New("identity not found")

// IdentityStore persists participants. Persistence technology is an external
// concern; the engine only requires lookup by credential key and creation.
type IdentityStore interface {
	// FindByUsername resolves a traditional identity.
	FindByUsername(ctx context.Context, username string) (*core.Identity, error)

	// FindByWallet resolves a DID identity by checksummed address.
	FindByWallet(ctx context.Context, address string) (*core.Identity, error)

	// Create stores a new identity and returns it with its assigned ID.
	Create(ctx context.Context, identity *core.Identity) (*core.Identity, error)
}

package store

import (
	"context"
	"sync"
	"time"

	"github.com/csec08/authlab/core"
	"github.com/csec08/authlab/ports"
)

// MemoryChallengeStore is an in-memory implementation of the challenge store
// for tests and single-node runs. A single mutex covers the
// invalidate-then-insert sequence so concurrent issuance for the same address
// cannot leave two valid challenges outstanding.
type MemoryChallengeStore struct {
	mu        sync.Mutex
	byAddress map[string][]*core.Challenge
	ttl       time.Duration
	now       func() time.Time
}

// NewMemoryChallengeStore builds a store with the given challenge TTL.
func NewMemoryChallengeStore(ttl time.Duration) *MemoryChallengeStore {
	if ttl <= 0 {
		ttl = core.DefaultChallengeTTL
	}
	return &MemoryChallengeStore{
		byAddress: make(map[string][]*core.Challenge),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Issue drops any unused challenges for the address and appends a fresh one.
// Consumed and expired records stay behind as the audit trail.
func (s *MemoryChallengeStore) Issue(_ context.Context, address string) (*core.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, err := core.NewChallenge(address, s.ttl, s.now())
	if err != nil {
		return nil, err
	}

	kept := s.byAddress[address][:0]
	for _, c := range s.byAddress[address] {
		if c.Used || c.Expired(s.now()) {
			kept = append(kept, c)
		}
	}
	s.byAddress[address] = append(kept, challenge)

	out := *challenge
	return &out, nil
}

// Consume finds the newest unused challenge for the address and marks it
// used. Expired challenges are reported but left unmodified.
func (s *MemoryChallengeStore) Consume(_ context.Context, address string) (*core.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.byAddress[address]
	for i := len(list) - 1; i >= 0; i-- {
		c := list[i]
		if c.Used {
			continue
		}
		if c.Expired(s.now()) {
			return nil, core.NewFault(core.KindNonceExpired)
		}
		c.Used = true
		out := *c
		return &out, nil
	}

	return nil, core.NewFault(core.KindNonceNotFound)
}

// MemoryIdentityStore is an in-memory identity store. Real deployments put a
// database behind ports.IdentityStore; the engine itself never depends on the
// persistence technology.
type MemoryIdentityStore struct {
	mu         sync.RWMutex
	nextID     int64
	byUsername map[string]*core.Identity
	byWallet   map[string]*core.Identity
}

// NewMemoryIdentityStore builds an empty identity store.
func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{
		nextID:     1,
		byUsername: make(map[string]*core.Identity),
		byWallet:   make(map[string]*core.Identity),
	}
}

func (s *MemoryIdentityStore) FindByUsername(_ context.Context, username string) (*core.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.byUsername[username]
	if !ok {
		return nil, ports.ErrIdentityNotFound
	}
	out := *identity
	return &out, nil
}

func (s *MemoryIdentityStore) FindByWallet(_ context.Context, address string) (*core.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.byWallet[address]
	if !ok {
		return nil, ports.ErrIdentityNotFound
	}
	out := *identity
	return &out, nil
}

func (s *MemoryIdentityStore) Create(_ context.Context, identity *core.Identity) (*core.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *identity
	stored.ID = s.nextID
	s.nextID++

	switch cred := stored.Credential.(type) {
	case core.PasswordCredential:
		s.byUsername[cred.Username] = &stored
	case core.WalletCredential:
		s.byWallet[cred.Address] = &stored
	}

	out := stored
	return &out, nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/csec08/authlab/core"
)

// RedisChallengeStore keeps one challenge record per address in Redis. A
// single SET replaces any prior unused challenge atomically, and Consume runs
// under WATCH so two concurrent verifications cannot both consume the same
// challenge.
type RedisChallengeStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisChallengeStore builds a store with the given challenge TTL.
func NewRedisChallengeStore(client *redis.Client, ttl time.Duration) *RedisChallengeStore {
	if ttl <= 0 {
		ttl = core.DefaultChallengeTTL
	}
	return &RedisChallengeStore{
		client: client,
		prefix: "authlab:challenge:",
		ttl:    ttl,
	}
}

func (s *RedisChallengeStore) key(address string) string {
	return s.prefix + strings.ToLower(address)
}

// Issue overwrites the address's challenge slot with a fresh record. The key
// lives twice the challenge TTL so an expired record remains observable for
// its NONCE_EXPIRED window before Redis reclaims it.
func (s *RedisChallengeStore) Issue(ctx context.Context, address string) (*core.Challenge, error) {
	challenge, err := core.NewChallenge(address, s.ttl, time.Now())
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to encode challenge: %w", err)
	}

	if err := s.client.Set(ctx, s.key(address), payload, 2*s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}

	return challenge, nil
}

// Consume flips the used flag inside a WATCH transaction. If another consumer
// raced us the transaction fails and the challenge reports NONCE_NOT_FOUND,
// preserving the exactly-once guarantee.
func (s *RedisChallengeStore) Consume(ctx context.Context, address string) (*core.Challenge, error) {
	key := s.key(address)
	var consumed *core.Challenge

	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return core.NewFault(core.KindNonceNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load challenge: %w", err)
		}

		var challenge core.Challenge
		if err := json.Unmarshal(raw, &challenge); err != nil {
			return fmt.Errorf("failed to decode challenge: %w", err)
		}

		if challenge.Used {
			return core.NewFault(core.KindNonceNotFound)
		}
		if challenge.Expired(time.Now()) {
			// Left as-is for the audit trail; Redis reclaims it at key TTL.
			return core.NewFault(core.KindNonceExpired)
		}

		challenge.Used = true
		updated, err := json.Marshal(&challenge)
		if err != nil {
			return fmt.Errorf("failed to encode challenge: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, redis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}

		consumed = &challenge
		return nil
	}

	if err := s.client.Watch(ctx, txn, key); err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, core.NewFault(core.KindNonceNotFound)
		}
		return nil, err
	}

	return consumed, nil
}

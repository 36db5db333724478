package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewChallenge(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	addr := "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	c, err := NewChallenge(addr, DefaultChallengeTTL, now)
	require.NoError(t, err)

	require.Equal(t, addr, c.Address)
	require.Len(t, c.Nonce, 64, "32 bytes of entropy hex-encoded")
	require.Equal(t, now, c.IssuedAt)
	require.Equal(t, now.Add(DefaultChallengeTTL), c.ExpiresAt)
	require.False(t, c.Used)

	other, err := NewChallenge(addr, DefaultChallengeTTL, now)
	require.NoError(t, err)
	require.NotEqual(t, c.Nonce, other.Nonce)
}

func TestChallengeExpired(t *testing.T) {
	now := time.Now()
	c, err := NewChallenge("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", 5*time.Minute, now)
	require.NoError(t, err)

	require.False(t, c.Expired(now))
	require.False(t, c.Expired(c.ExpiresAt))
	require.True(t, c.Expired(c.ExpiresAt.Add(time.Second)))
}

func TestSigningMessageEmbedsNoncePrefixAndTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	addr := "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	c, err := NewChallenge(addr, DefaultChallengeTTL, now)
	require.NoError(t, err)

	msg := c.SigningMessage()
	require.Contains(t, msg, addr)
	require.Contains(t, msg, c.Nonce[:16]+"...")
	require.Contains(t, msg, now.Format(time.RFC3339))
	require.NotContains(t, msg, c.Nonce[16:], "full nonce must stay server-side")

	// Verification rebuilds the message from stored fields; both paths must
	// agree byte for byte.
	require.Equal(t, msg, SigningMessage(c.Address, c.Nonce, c.IssuedAt))
}

func TestSigningMessageShortNonce(t *testing.T) {
	msg := SigningMessage("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", "abcdef", time.Now())
	require.True(t, strings.Contains(msg, "abcdef..."))
}

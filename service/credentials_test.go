package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/csec08/authlab/adapters/store"
	"github.com/csec08/authlab/core"
)

func TestSanitizeUsername(t *testing.T) {
	cases := map[string]string{
		"  Alice  ":       "alice",
		"bob.smith":       "bob.smith",
		"carol-jones":     "carol-jones",
		"d4ve_99":         "d4ve_99",
		"eve<script>":     "evescript",
		"frank!@#$%^&*()": "frank",
	}

	for in, want := range cases {
		require.Equal(t, want, SanitizeUsername(in), "input %q", in)
	}
}

func TestValidatePassword(t *testing.T) {
	weak := []string{
		"Short1",                          // under 8 chars
		strings.Repeat("a1", 65),          // over 128 chars
		"abcdefgh",                        // no digit
		"12345678",                        // no letter, also denylisted
		"Password1",                       // denylist hit is case-insensitive
		"qwerty123",
	}
	for _, pw := range weak {
		err := ValidatePassword(pw)
		fault, ok := core.AsFault(err)
		require.True(t, ok, "password %q", pw)
		require.Equal(t, core.KindWeakPassword, fault.Kind, "password %q", pw)
	}

	require.NoError(t, ValidatePassword("Passw0rd!"))
	require.NoError(t, ValidatePassword("correct horse battery 1"))
}

func TestRegisterAndVerify(t *testing.T) {
	ctx := context.Background()
	verifier := NewCredentialVerifier(store.NewMemoryIdentityStore(), bcrypt.MinCost)

	identity, err := verifier.Register(ctx, "  Alice  ", "Passw0rd!", core.RoleStudent)
	require.NoError(t, err)
	require.Equal(t, core.CohortControl, identity.Cohort)
	require.Equal(t, core.MethodTraditional, identity.Credential.Method())

	name, ok := identity.Username()
	require.True(t, ok)
	require.Equal(t, "alice", name)

	// The stored hash is bcrypt, never the plaintext.
	cred := identity.Credential.(core.PasswordCredential)
	require.NotEqual(t, "Passw0rd!", cred.PasswordHash)
	require.True(t, strings.HasPrefix(cred.PasswordHash, "$2"))

	got, err := verifier.Verify(ctx, "ALICE", "Passw0rd!")
	require.NoError(t, err)
	require.Equal(t, identity.ID, got.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	verifier := NewCredentialVerifier(store.NewMemoryIdentityStore(), bcrypt.MinCost)

	_, err := verifier.Register(ctx, "alice", "Passw0rd!", core.RoleStudent)
	require.NoError(t, err)

	// Sanitization makes these the same username.
	_, err = verifier.Register(ctx, " Alice ", "Other-Passw0rd", core.RoleStudent)
	fault, ok := core.AsFault(err)
	require.True(t, ok)
	require.Equal(t, core.KindUsernameExists, fault.Kind)
}

func TestVerifyIndistinguishableFailures(t *testing.T) {
	ctx := context.Background()
	verifier := NewCredentialVerifier(store.NewMemoryIdentityStore(), bcrypt.MinCost)

	_, err := verifier.Register(ctx, "alice", "Passw0rd!", core.RoleStudent)
	require.NoError(t, err)

	// Wrong password and unknown username yield the same fault.
	_, wrongPw := verifier.Verify(ctx, "alice", "not-the-passw0rd")
	_, unknown := verifier.Verify(ctx, "mallory", "Passw0rd!")

	for _, err := range []error{wrongPw, unknown} {
		fault, ok := core.AsFault(err)
		require.True(t, ok)
		require.Equal(t, core.KindInvalidCredentials, fault.Kind)
		require.Equal(t, core.CategoryUsability, fault.Category)
	}
}

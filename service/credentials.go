package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/csec08/authlab/core"
	"github.com/csec08/authlab/ports"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128

	// DefaultBcryptCost matches production standards the study simulates.
	DefaultBcryptCost = 12
)

// commonPasswords is a small denylist of passwords rejected outright.
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "12345678": {}, "qwerty123": {},
	"admin123": {}, "letmein1": {}, "welcome1": {}, "iloveyou1": {},
	"sunshine1": {}, "master123": {},
}

var (
	hasLetter        = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit         = regexp.MustCompile(`[0-9]`)
	usernameDisallow = regexp.MustCompile(`[^\w\-.]`)
)

// SanitizeUsername trims, lowercases and strips characters outside
// [\w\-.] so usernames compare consistently across attempts.
func SanitizeUsername(username string) string {
	username = strings.ToLower(strings.TrimSpace(username))
	return usernameDisallow.ReplaceAllString(username, "")
}

// ValidatePassword enforces the password policy: length 8-128, at least one
// letter and one digit, and not in the common-password denylist.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return core.NewFault(core.KindWeakPassword)
	}
	if _, banned := commonPasswords[strings.ToLower(password)]; banned {
		return core.NewFault(core.KindWeakPassword)
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return core.NewFault(core.KindWeakPassword)
	}
	return nil
}

// CredentialVerifier handles the traditional path: registration with policy
// enforcement and bcrypt hashing, and verification against the stored hash.
type CredentialVerifier struct {
	identities ports.IdentityStore
	cost       int
	now        func() time.Time
}

// NewCredentialVerifier builds a verifier over the given identity store.
// Costs below bcrypt's minimum fall back to DefaultBcryptCost.
func NewCredentialVerifier(identities ports.IdentityStore, cost int) *CredentialVerifier {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	return &CredentialVerifier{identities: identities, cost: cost, now: time.Now}
}

// Register creates a traditional identity. Fails with USERNAME_EXISTS or
// WEAK_PASSWORD faults; the plaintext password is hashed and discarded.
func (v *CredentialVerifier) Register(ctx context.Context, username, password string, role core.Role) (*core.Identity, error) {
	username = SanitizeUsername(username)

	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := v.identities.FindByUsername(ctx, username); err == nil {
		return nil, core.NewFault(core.KindUsernameExists)
	} else if !errors.Is(err, ports.ErrIdentityNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return nil, err
	}

	identity := core.NewPasswordIdentity(username, string(hash), role, v.now())
	return v.identities.Create(ctx, identity)
}

// Verify checks a username/password pair. The bcrypt comparison does not
// leak timing on early mismatch. Unknown usernames and wrong passwords are
// indistinguishable to the caller: both fail INVALID_CREDENTIALS.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (*core.Identity, error) {
	username = SanitizeUsername(username)

	identity, err := v.identities.FindByUsername(ctx, username)
	if errors.Is(err, ports.ErrIdentityNotFound) {
		return nil, core.NewFault(core.KindInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	cred, ok := identity.Credential.(core.PasswordCredential)
	if !ok {
		return nil, core.NewFault(core.KindInvalidCredentials)
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, core.NewFault(core.KindInvalidCredentials)
	}

	return identity, nil
}

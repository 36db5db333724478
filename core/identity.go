package core

import "time"

// AuthMethod identifies which authentication stack produced a result.
type AuthMethod string

const (
	// MethodTraditional is username/password authentication.
	MethodTraditional AuthMethod = "TRADITIONAL"

	// MethodDID is wallet-signature (decentralized identity) authentication.
	MethodDID AuthMethod = "DID"
)

// Role is the participant's role in the study.
type Role string

const (
	RoleStudent Role = "Student"
	RoleFaculty Role = "Faculty"
	RoleAdmin   Role = "Admin"
)

// ParseRole maps a free-form role string onto a known Role.
// Unrecognized values fall back to Student, matching registration defaults.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleFaculty:
		return RoleFaculty
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleStudent
	}
}

// Cohort is the research group a participant belongs to.
type Cohort string

const (
	// CohortControl uses traditional authentication.
	CohortControl Cohort = "CONTROL"

	// CohortExperimental uses DID authentication.
	CohortExperimental Cohort = "EXPERIMENTAL"
)

// Credential is the tagged union of the two credential variants. An identity
// holds exactly one variant; constructing an identity with both or neither
// credential slots is not representable.
type Credential interface {
	// Method reports which authentication stack the credential belongs to.
	Method() AuthMethod
}

// PasswordCredential is the traditional credential slot. PasswordHash holds a
// bcrypt digest, never a plaintext password.
type PasswordCredential struct {
	Username     string
	PasswordHash string
}

func (PasswordCredential) Method() AuthMethod { return MethodTraditional }

// WalletCredential is the DID credential slot. Address is stored in
// checksummed form.
type WalletCredential struct {
	Address string
}

func (WalletCredential) Method() AuthMethod { return MethodDID }

// Identity is a study participant. Identities are created on first successful
// registration (traditional) or first successful signature verification (DID)
// and are never deleted by the engine.
type Identity struct {
	ID         int64
	Role       Role
	Cohort     Cohort
	CreatedAt  time.Time
	Credential Credential
}

// NewPasswordIdentity builds a traditional identity in the control cohort.
func NewPasswordIdentity(username, passwordHash string, role Role, now time.Time) *Identity {
	return &Identity{
		Role:      role,
		Cohort:    CohortControl,
		CreatedAt: now,
		Credential: PasswordCredential{
			Username:     username,
			PasswordHash: passwordHash,
		},
	}
}

// NewWalletIdentity builds an auto-provisioned DID identity in the
// experimental cohort.
func NewWalletIdentity(address string, now time.Time) *Identity {
	return &Identity{
		Role:       RoleStudent,
		Cohort:     CohortExperimental,
		CreatedAt:  now,
		Credential: WalletCredential{Address: address},
	}
}

// Method reports the identity's authentication method.
func (i *Identity) Method() AuthMethod { return i.Credential.Method() }

// Username returns the username for traditional identities.
func (i *Identity) Username() (string, bool) {
	c, ok := i.Credential.(PasswordCredential)
	if !ok {
		return "", false
	}
	return c.Username, true
}

// WalletAddress returns the checksummed address for DID identities.
func (i *Identity) WalletAddress() (string, bool) {
	c, ok := i.Credential.(WalletCredential)
	if !ok {
		return "", false
	}
	return c.Address, true
}

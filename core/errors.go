package core

import "errors"

// TaxonomyVersion tracks the error classification contract. The research
// analysis joins on (kind, category); changing the category of an existing
// kind requires bumping this version and adding a migration note below.
//
// v1: initial table. RATE_LIMITED assigned to USABILITY (reflects user
// pacing, not infrastructure failure). TOKEN_EXPIRED and INVALID_TOKEN
// assigned to SYSTEM, matching the pre-v1 default for unlisted kinds.
const TaxonomyVersion = 1

// ErrorKind is the closed set of failure kinds the engine can produce.
type ErrorKind string

const (
	KindInvalidCredentials     ErrorKind = "INVALID_CREDENTIALS"
	KindSignatureMismatch      ErrorKind = "SIGNATURE_MISMATCH"
	KindWeakPassword           ErrorKind = "WEAK_PASSWORD"
	KindUsernameExists         ErrorKind = "USERNAME_EXISTS"
	KindUserRejectedSignature  ErrorKind = "USER_REJECTED_SIGNATURE"
	KindRateLimited            ErrorKind = "RATE_LIMITED"
	KindNonceNotFound          ErrorKind = "NONCE_NOT_FOUND"
	KindNonceExpired           ErrorKind = "NONCE_EXPIRED"
	KindInvalidSignatureFormat ErrorKind = "INVALID_SIGNATURE_FORMAT"
	KindInvalidAddress         ErrorKind = "INVALID_ADDRESS"
	KindVerificationFailed     ErrorKind = "VERIFICATION_FAILED"
	KindInternalError          ErrorKind = "INTERNAL_ERROR"
	KindTokenExpired           ErrorKind = "TOKEN_EXPIRED"
	KindInvalidToken           ErrorKind = "INVALID_TOKEN"
)

// Kinds returns every defined error kind. Tests assert that each kind has an
// explicit classification and message.
func Kinds() []ErrorKind {
	return []ErrorKind{
		KindInvalidCredentials,
		KindSignatureMismatch,
		KindWeakPassword,
		KindUsernameExists,
		KindUserRejectedSignature,
		KindRateLimited,
		KindNonceNotFound,
		KindNonceExpired,
		KindInvalidSignatureFormat,
		KindInvalidAddress,
		KindVerificationFailed,
		KindInternalError,
		KindTokenExpired,
		KindInvalidToken,
	}
}

// Category splits failures into user-caused friction and infrastructure
// faults. The distinction drives the research conclusions and must never be
// conflated downstream.
type Category string

const (
	CategoryUsability Category = "USABILITY"
	CategorySystem    Category = "SYSTEM"
)

// Classify maps an error kind to its category. Unknown kinds default to
// SYSTEM so that a missed case never surfaces as user fault.
func Classify(kind ErrorKind) Category {
	switch kind {
	case KindInvalidCredentials,
		KindSignatureMismatch,
		KindWeakPassword,
		KindUsernameExists,
		KindUserRejectedSignature,
		KindRateLimited:
		return CategoryUsability
	case KindNonceNotFound,
		KindNonceExpired,
		KindInvalidSignatureFormat,
		KindInvalidAddress,
		KindVerificationFailed,
		KindInternalError,
		KindTokenExpired,
		KindInvalidToken:
		return CategorySystem
	default:
		return CategorySystem
	}
}

var messages = map[ErrorKind]string{
	KindInvalidCredentials:     "Incorrect username or password. Please try again.",
	KindSignatureMismatch:      "Signature verification failed. Please ensure you're using the correct wallet.",
	KindWeakPassword:           "Password is too weak. Please choose a stronger password.",
	KindUsernameExists:         "Username already taken. Please choose a different username.",
	KindUserRejectedSignature:  "You cancelled the signature request. Please try again.",
	KindRateLimited:            "Too many attempts. Please wait before trying again.",
	KindNonceNotFound:          "Authentication challenge not found. Please start the login process again.",
	KindNonceExpired:           "Authentication challenge expired. Please try logging in again.",
	KindInvalidSignatureFormat: "Invalid signature format. Please try signing again.",
	KindInvalidAddress:         "Invalid Ethereum address format.",
	KindVerificationFailed:     "Authentication verification failed. Please try again.",
	KindInternalError:          "An unexpected error occurred. Please try again later.",
	KindTokenExpired:           "Your session has expired. Please sign in again.",
	KindInvalidToken:           "Invalid session token. Please sign in again.",
}

// MessageFor returns the user-facing message for a kind.
func MessageFor(kind ErrorKind) string {
	if msg, ok := messages[kind]; ok {
		return msg
	}
	return "An error occurred. Please try again."
}

// Fault is a classified failure. It is the only error type that crosses the
// engine boundary; every failure response on the wire carries its
// (kind, category, message) triple.
type Fault struct {
	Kind     ErrorKind
	Category Category
	Message  string
}

func (f *Fault) Error() string { return string(f.Kind) }

// NewFault builds a Fault with its category and message resolved from the
// taxonomy.
func NewFault(kind ErrorKind) *Fault {
	return &Fault{
		Kind:     kind,
		Category: Classify(kind),
		Message:  MessageFor(kind),
	}
}

// AsFault extracts a Fault from an error chain.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/csec08/authlab/core"
	"github.com/csec08/authlab/internal/eth"
	"github.com/csec08/authlab/ports"
)

// AttemptContext carries the client-reported measurements that accompany an
// attempt. The engine passes them through to telemetry untouched.
type AttemptContext struct {
	ElapsedMS int64
	SessionID string
	UserAgent string
	Metrics   core.ClientMetrics
}

// LoginResult is returned by both login flows on success.
type LoginResult struct {
	Identity *core.Identity
	Method   core.AuthMethod
	Token    string
}

// AuthService orchestrates the two authentication flows. Every attempt is
// rate-limit gated, classified through the error taxonomy on failure, and
// handed to the telemetry recorder regardless of outcome.
type AuthService struct {
	challenges  ports.ChallengeStore
	identities  ports.IdentityStore
	credentials *CredentialVerifier
	sessions    ports.SessionIssuer
	limiter     *RateLimiter
	telemetry   ports.TelemetryRecorder
	log         zerolog.Logger
	now         func() time.Time
}

// NewAuthService wires the orchestrator.
func NewAuthService(
	challenges ports.ChallengeStore,
	identities ports.IdentityStore,
	credentials *CredentialVerifier,
	sessions ports.SessionIssuer,
	limiter *RateLimiter,
	telemetry ports.TelemetryRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		challenges:  challenges,
		identities:  identities,
		credentials: credentials,
		sessions:    sessions,
		limiter:     limiter,
		telemetry:   telemetry,
		log:         log,
		now:         time.Now,
	}
}

// RegisterTraditional creates a control-cohort identity. Registration is not
// an authentication attempt: it is not rate-limit gated and not recorded to
// telemetry.
func (s *AuthService) RegisterTraditional(ctx context.Context, username, password, role string) (*core.Identity, error) {
	identity, err := s.credentials.Register(ctx, username, password, core.ParseRole(role))
	if err != nil {
		return nil, s.fault(err)
	}

	name, _ := identity.Username()
	s.log.Info().Str("username", name).Int64("identity_id", identity.ID).
		Msg("registered traditional identity")
	return identity, nil
}

// LoginTraditional authenticates a username/password pair and issues a
// session token.
func (s *AuthService) LoginTraditional(ctx context.Context, username, password string, att AttemptContext) (*LoginResult, error) {
	key := "user:" + SanitizeUsername(username)

	if !s.limiter.Check(key) {
		return nil, s.recordFailure(ctx, core.MethodTraditional, nil, core.NewFault(core.KindRateLimited), att)
	}
	s.limiter.Record(key)

	identity, err := s.credentials.Verify(ctx, username, password)
	if err != nil {
		return nil, s.recordFailure(ctx, core.MethodTraditional, nil, s.fault(err), att)
	}

	return s.succeed(ctx, identity, core.MethodTraditional, key, att)
}

// RequestChallenge issues a single-use challenge for the address. Challenge
// issuance consults the limiter but does not consume an attempt, and is not
// itself recorded to telemetry.
func (s *AuthService) RequestChallenge(ctx context.Context, address string) (*core.Challenge, error) {
	canonical, err := eth.ChecksumAddress(address)
	if err != nil {
		return nil, core.NewFault(core.KindInvalidAddress)
	}

	if !s.limiter.Check(walletKey(canonical)) {
		return nil, core.NewFault(core.KindRateLimited)
	}

	challenge, err := s.challenges.Issue(ctx, canonical)
	if err != nil {
		return nil, s.fault(err)
	}
	return challenge, nil
}

// VerifyChallenge consumes the outstanding challenge for the address,
// verifies the wallet signature over the reconstructed signing message, and
// on success issues a session token, auto-provisioning an experimental-cohort
// identity on first login.
func (s *AuthService) VerifyChallenge(ctx context.Context, address, signature string, att AttemptContext) (*LoginResult, error) {
	canonical, err := eth.ChecksumAddress(address)
	if err != nil {
		return nil, s.recordFailure(ctx, core.MethodDID, nil, core.NewFault(core.KindInvalidAddress), att)
	}
	key := walletKey(canonical)

	if !s.limiter.Check(key) {
		return nil, s.recordFailure(ctx, core.MethodDID, nil, core.NewFault(core.KindRateLimited), att)
	}
	s.limiter.Record(key)

	challenge, err := s.challenges.Consume(ctx, canonical)
	if err != nil {
		return nil, s.recordFailure(ctx, core.MethodDID, nil, s.fault(err), att)
	}

	if err := eth.VerifyPersonalSignature(challenge.SigningMessage(), signature, canonical); err != nil {
		return nil, s.recordFailure(ctx, core.MethodDID, nil, signatureFault(err), att)
	}

	identity, err := s.identities.FindByWallet(ctx, canonical)
	switch {
	case errors.Is(err, ports.ErrIdentityNotFound):
		identity, err = s.identities.Create(ctx, core.NewWalletIdentity(canonical, s.now()))
		if err != nil {
			return nil, s.recordFailure(ctx, core.MethodDID, nil, s.fault(err), att)
		}
		s.log.Info().Str("address", canonical).Int64("identity_id", identity.ID).
			Msg("auto-provisioned wallet identity")
	case err != nil:
		return nil, s.recordFailure(ctx, core.MethodDID, nil, s.fault(err), att)
	}

	return s.succeed(ctx, identity, core.MethodDID, key, att)
}

// ValidateSession verifies a session token and returns its claims.
func (s *AuthService) ValidateSession(token string) (*core.SessionClaims, error) {
	claims, err := s.sessions.Validate(token)
	if err != nil {
		return nil, s.fault(err)
	}
	return claims, nil
}

// RecordClientEvent records a failure that happened entirely on the client,
// such as the user rejecting the wallet's signature prompt. The kind is
// classified through the taxonomy like any server-side failure.
func (s *AuthService) RecordClientEvent(ctx context.Context, method core.AuthMethod, kind core.ErrorKind, att AttemptContext) {
	s.record(ctx, core.Failed(method, core.NewFault(kind)), att)
}

// succeed issues the session token, resets the limiter window and records the
// successful attempt.
func (s *AuthService) succeed(ctx context.Context, identity *core.Identity, method core.AuthMethod, limiterKey string, att AttemptContext) (*LoginResult, error) {
	token, err := s.sessions.Issue(identity, method)
	if err != nil {
		s.log.Error().Err(err).Msg("session issuance failed")
		return nil, s.recordFailure(ctx, method, identity, core.NewFault(core.KindInternalError), att)
	}

	s.limiter.Reset(limiterKey)
	s.record(ctx, core.Succeeded(identity, method), att)

	return &LoginResult{Identity: identity, Method: method, Token: token}, nil
}

// recordFailure shapes and hands off the failed attempt, then returns the
// fault for the caller to propagate.
func (s *AuthService) recordFailure(ctx context.Context, method core.AuthMethod, identity *core.Identity, fault *core.Fault, att AttemptContext) error {
	outcome := core.Failed(method, fault)
	outcome.Identity = identity
	s.record(ctx, outcome, att)
	return fault
}

// record shapes an AttemptRecord from the outcome and hands it to the
// external recorder. Recorder failures are logged, never surfaced: losing a
// telemetry row must not fail the login.
func (s *AuthService) record(ctx context.Context, outcome core.Outcome, att AttemptContext) {
	rec := core.AttemptRecord{
		ID:        uuid.New().String(),
		Method:    outcome.Method,
		Success:   outcome.OK(),
		ElapsedMS: att.ElapsedMS,
		Metrics:   att.Metrics,
		SessionID: att.SessionID,
		UserAgent: att.UserAgent,
		At:        s.now(),
	}
	if outcome.Identity != nil {
		id := outcome.Identity.ID
		rec.IdentityID = &id
	}
	if outcome.Failure != nil {
		rec.ErrorKind = outcome.Failure.Kind
		rec.ErrorCategory = outcome.Failure.Category
	}

	if err := s.telemetry.RecordAttempt(ctx, rec); err != nil {
		s.log.Warn().Err(err).Str("record_id", rec.ID).Msg("telemetry handoff failed")
	}
}

// fault normalizes an error to a classified Fault. Anything that is not
// already part of the taxonomy is an unexpected internal fault and surfaces
// as INTERNAL_ERROR rather than leaking implementation detail.
func (s *AuthService) fault(err error) *core.Fault {
	if f, ok := core.AsFault(err); ok {
		return f
	}
	s.log.Error().Err(err).Msg("unexpected internal fault")
	return core.NewFault(core.KindInternalError)
}

// signatureFault maps verifier errors onto the taxonomy: malformed input and
// a valid-but-wrong signature are distinct kinds.
func signatureFault(err error) *core.Fault {
	switch {
	case errors.Is(err, eth.ErrSignerMismatch):
		return core.NewFault(core.KindSignatureMismatch)
	case errors.Is(err, eth.ErrInvalidAddress):
		return core.NewFault(core.KindInvalidAddress)
	default:
		return core.NewFault(core.KindInvalidSignatureFormat)
	}
}

func walletKey(canonical string) string {
	return "wallet:" + strings.ToLower(canonical)
}

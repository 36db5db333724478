package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientMetrics are behavioral measurements captured on the client and passed
// through verbatim. The engine never interprets them; decimal-valued fields
// use fixed-point decimals so exported research data does not pick up float
// drift.
type ClientMetrics struct {
	ComponentMountMS   *int64           `json:"component_mount_ms,omitempty"`
	WalletConnectMS    *int64           `json:"wallet_connect_ms,omitempty"`
	ChallengeRequestMS *int64           `json:"challenge_request_ms,omitempty"`
	SignDurationMS     *int64           `json:"sign_duration_ms,omitempty"`
	HesitationScore    *decimal.Decimal `json:"hesitation_score,omitempty"`
	MouseTotalDistance *decimal.Decimal `json:"mouse_total_distance,omitempty"`
	MouseIdleTimeMS    *int64           `json:"mouse_idle_time_ms,omitempty"`
}

// AttemptRecord is the shape handed to the external telemetry collaborator
// for every authentication attempt, successful or not. Throttled attempts are
// recorded too. IdentityID is nil when the attempt failed before an identity
// was resolved.
type AttemptRecord struct {
	ID            string        `json:"id"`
	IdentityID    *int64        `json:"identity_id,omitempty"`
	Method        AuthMethod    `json:"auth_method"`
	Success       bool          `json:"success"`
	ErrorKind     ErrorKind     `json:"error_kind,omitempty"`
	ErrorCategory Category      `json:"error_category,omitempty"`
	ElapsedMS     int64         `json:"time_taken_ms"`
	Metrics       ClientMetrics `json:"metrics"`
	SessionID     string        `json:"session_id,omitempty"`
	UserAgent     string        `json:"user_agent,omitempty"`
	At            time.Time     `json:"timestamp"`
}

package ports

import (
	"context"

	"github.com/csec08/authlab/core"
)

// TelemetryRecorder receives attempt records for persistence and analysis.
// It is an external collaborator: the engine shapes the record and hands it
// off, and a recorder failure never fails the authentication attempt.
type TelemetryRecorder interface {
	RecordAttempt(ctx context.Context, record core.AttemptRecord) error
}

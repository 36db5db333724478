package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/csec08/authlab/core"
)

// AttemptTopic is where attempt records are published for the research
// pipeline to consume.
const AttemptTopic = "auth.attempts"

// WatermillRecorder hands attempt records to the external telemetry pipeline
// over a Watermill publisher.
type WatermillRecorder struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillRecorder creates a recorder publishing to AttemptTopic.
func NewWatermillRecorder(publisher message.Publisher) *WatermillRecorder {
	return &WatermillRecorder{
		publisher: publisher,
		topic:     AttemptTopic,
	}
}

// RecordAttempt publishes the record as JSON, keyed by its record ID.
func (r *WatermillRecorder) RecordAttempt(_ context.Context, record core.AttemptRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt record: %w", err)
	}

	msg := message.NewMessage(record.ID, payload)

	if err := r.publisher.Publish(r.topic, msg); err != nil {
		return fmt.Errorf("failed to publish attempt record: %w", err)
	}
	return nil
}

package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventEnvelope is the common envelope used across the platform's events.
type EventEnvelope[T any] struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	OccurredAt    time.Time `json:"occurredAt"`
	Schema        string    `json:"schema"`
	Payload       T         `json:"payload"`
}

func newEnvelope[T any](name string, version int, partitionKey, correlationID string, payload T) EventEnvelope[T] {
	return EventEnvelope[T]{
		EventName:     name,
		EventVersion:  version,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Producer:      Producer,
		PartitionKey:  partitionKey,
		OccurredAt:    time.Now().UTC(),
		Schema:        fmt.Sprintf("ecommerce.%s.v%d", name, version),
		Payload:       payload,
	}
}

// Validate ensures the envelope contains the expected event identity.
func (e EventEnvelope[T]) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName: %s", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion: %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	return nil
}

// Package models defines the shared data types of the sequent engine.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EventType categorizes engine events.
type EventType string

const (
	// Sequence events
	EventTypeSequenceStarted   EventType = "sequence.started"
	EventTypeSequenceCompleted EventType = "sequence.completed"
	EventTypeSequenceFailed    EventType = "sequence.failed"

	// Step events
	EventTypeStepStarted   EventType = "step.started"
	EventTypeStepCompleted EventType = "step.completed"
	EventTypeStepFailed    EventType = "step.failed"
)

// EntityType identifies the kind of entity an event relates to.
type EntityType string

const (
	EntityTypeSequence EntityType = "sequence"
	EntityTypeStep     EntityType = "step"
)

// Event represents an append-only execution log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the ID of the related entity (a sequence label, or
	// "<label>/<step index>" for steps).
	EntityID string `json:"entity_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the event is valid.
func (e *Event) Validate() error {
	if strings.TrimSpace(string(e.Type)) == "" {
		return fmt.Errorf("event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		return fmt.Errorf("event entity type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		return fmt.Errorf("event entity id is required")
	}
	return nil
}

// StepStartedPayload is the payload for step.started events.
type StepStartedPayload struct {
	StepIndex int    `json:"step_index"`
	StepType  string `json:"step_type"`
	Label     string `json:"label,omitempty"`
}

// StepCompletedPayload is the payload for step.completed events.
type StepCompletedPayload struct {
	StepIndex int    `json:"step_index"`
	StepType  string `json:"step_type"`
	Duration  string `json:"duration"`
}

// StepFailedPayload is the payload for step.failed events.
type StepFailedPayload struct {
	StepIndex int    `json:"step_index"`
	StepType  string `json:"step_type"`
	Error     string `json:"error"`
}

// SequenceCompletedPayload is the payload for sequence.completed events.
type SequenceCompletedPayload struct {
	Steps    int    `json:"steps"`
	Duration string `json:"duration"`
}

// SequenceFailedPayload is the payload for sequence.failed events.
type SequenceFailedPayload struct {
	Error string `json:"error"`
}

// Package events provides helper functions for logging sequent engine events.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sequentlab/sequent/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

// stepEntityID names a step entity as "<sequence label>/<1-based index>".
func stepEntityID(label string, stepIndex int) string {
	return fmt.Sprintf("%s/%d", label, stepIndex)
}

// LogSequenceStarted records the start of a sequence run.
func LogSequenceStarted(ctx context.Context, repo Repository, label string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeSequenceStarted,
		EntityType: models.EntityTypeSequence,
		EntityID:   label,
	})
}

// LogSequenceCompleted records a successful sequence run.
func LogSequenceCompleted(ctx context.Context, repo Repository, label string, steps int, duration string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	payload, err := json.Marshal(models.SequenceCompletedPayload{Steps: steps, Duration: duration})
	if err != nil {
		return fmt.Errorf("failed to marshal completion payload: %w", err)
	}
	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeSequenceCompleted,
		EntityType: models.EntityTypeSequence,
		EntityID:   label,
		Payload:    payload,
	})
}

// LogSequenceFailed records an aborted sequence run.
func LogSequenceFailed(ctx context.Context, repo Repository, label, errText string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	payload, err := json.Marshal(models.SequenceFailedPayload{Error: errText})
	if err != nil {
		return fmt.Errorf("failed to marshal failure payload: %w", err)
	}
	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeSequenceFailed,
		EntityType: models.EntityTypeSequence,
		EntityID:   label,
		Payload:    payload,
	})
}

// LogStepStarted records the start of a step.
func LogStepStarted(ctx context.Context, repo Repository, label string, stepIndex int, stepType, stepLabel string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	payload, err := json.Marshal(models.StepStartedPayload{
		StepIndex: stepIndex,
		StepType:  stepType,
		Label:     stepLabel,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal step payload: %w", err)
	}
	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeStepStarted,
		EntityType: models.EntityTypeStep,
		EntityID:   stepEntityID(label, stepIndex),
		Payload:    payload,
	})
}

// LogStepCompleted records a finished step.
func LogStepCompleted(ctx context.Context, repo Repository, label string, stepIndex int, stepType, duration string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	payload, err := json.Marshal(models.StepCompletedPayload{
		StepIndex: stepIndex,
		StepType:  stepType,
		Duration:  duration,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal step payload: %w", err)
	}
	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeStepCompleted,
		EntityType: models.EntityTypeStep,
		EntityID:   stepEntityID(label, stepIndex),
		Payload:    payload,
	})
}

// LogStepFailed records a step that stopped with an error.
func LogStepFailed(ctx context.Context, repo Repository, label string, stepIndex int, stepType, errText string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	payload, err := json.Marshal(models.StepFailedPayload{
		StepIndex: stepIndex,
		StepType:  stepType,
		Error:     errText,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal step payload: %w", err)
	}
	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeStepFailed,
		EntityType: models.EntityTypeStep,
		EntityID:   stepEntityID(label, stepIndex),
		Payload:    payload,
	})
}

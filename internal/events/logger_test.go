package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sequentlab/sequent/internal/models"
)

type captureRepo struct {
	events []*models.Event
}

func (r *captureRepo) Create(ctx context.Context, event *models.Event) error {
	r.events = append(r.events, event)
	return nil
}

func TestLogStepFailed(t *testing.T) {
	repo := &captureRepo{}

	err := LogStepFailed(context.Background(), repo, "startup", 4, "action", "boom")
	if err != nil {
		t.Fatalf("LogStepFailed: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}

	event := repo.events[0]
	if event.Type != models.EventTypeStepFailed {
		t.Fatalf("unexpected type %q", event.Type)
	}
	if event.EntityID != "startup/4" {
		t.Fatalf("unexpected entity id %q", event.EntityID)
	}

	var payload models.StepFailedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.StepIndex != 4 || payload.Error != "boom" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestLogSequenceLifecycle(t *testing.T) {
	repo := &captureRepo{}
	ctx := context.Background()

	if err := LogSequenceStarted(ctx, repo, "startup"); err != nil {
		t.Fatalf("LogSequenceStarted: %v", err)
	}
	if err := LogSequenceCompleted(ctx, repo, "startup", 7, "1.2s"); err != nil {
		t.Fatalf("LogSequenceCompleted: %v", err)
	}
	if err := LogSequenceFailed(ctx, repo, "startup", "step 3: boom"); err != nil {
		t.Fatalf("LogSequenceFailed: %v", err)
	}

	want := []models.EventType{
		models.EventTypeSequenceStarted,
		models.EventTypeSequenceCompleted,
		models.EventTypeSequenceFailed,
	}
	for i, eventType := range want {
		if repo.events[i].Type != eventType {
			t.Fatalf("event %d: expected %q, got %q", i, eventType, repo.events[i].Type)
		}
	}
}

func TestLogRequiresRepository(t *testing.T) {
	if err := LogSequenceStarted(context.Background(), nil, "x"); err == nil {
		t.Fatalf("expected error for nil repository")
	}
	if err := LogStepStarted(context.Background(), nil, "x", 1, "action", ""); err == nil {
		t.Fatalf("expected error for nil repository")
	}
}

// Package sequence provides automation sequences: ordered lists of typed
// steps with two-phase validation of their block structure.
package sequence

import "time"

// StepType defines the kind of sequence step.
type StepType string

const (
	StepTypeAction StepType = "action"
	StepTypeIf     StepType = "if"
	StepTypeElseIf StepType = "elseif"
	StepTypeElse   StepType = "else"
	StepTypeWhile  StepType = "while"
	StepTypeTry    StepType = "try"
	StepTypeCatch  StepType = "catch"
	StepTypeEnd    StepType = "end"
)

// unassignedLevel marks a step that has not been through an indentation pass.
const unassignedLevel = -1

// Step is one instruction in a sequence: either a plain action or a
// control-flow marker. Its type is fixed at construction; the indentation
// level is assigned by the sequence it belongs to.
type Step struct {
	Type    StepType `yaml:"type"`
	Label   string   `yaml:"label,omitempty"`
	Script  string   `yaml:"script,omitempty"`
	Timeout string   `yaml:"timeout,omitempty"`

	// Imports and Exports name the context variables the step script reads
	// and writes.
	Imports []string `yaml:"imports,omitempty"`
	Exports []string `yaml:"exports,omitempty"`

	level        int
	running      bool
	lastModified time.Time
	lastExecuted time.Time
}

// NewStep creates a step of the given type with an unassigned nesting level.
func NewStep(t StepType) Step {
	return Step{
		Type:         t,
		level:        unassignedLevel,
		lastModified: time.Now(),
	}
}

// IndentationLevel returns the nesting level assigned by the last
// indentation pass, or -1 if the step has never been part of one.
func (s *Step) IndentationLevel() int {
	return s.level
}

// Running reports whether an executor is currently processing the step.
func (s *Step) Running() bool {
	return s.running
}

// SetRunning marks the step as being executed.
func (s *Step) SetRunning(v bool) {
	s.running = v
}

// LastModified returns the time the step was last edited.
func (s *Step) LastModified() time.Time {
	return s.lastModified
}

// LastExecuted returns the time the step last finished executing.
func (s *Step) LastExecuted() time.Time {
	return s.lastExecuted
}

// MarkExecuted stamps the step with its most recent execution time.
func (s *Step) MarkExecuted(at time.Time) {
	s.lastExecuted = at
}

// TimeoutDuration parses the step timeout, returning fallback when the
// field is empty or unparseable.
func (s *Step) TimeoutDuration(fallback time.Duration) time.Duration {
	if s.Timeout == "" {
		return fallback
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// knownStepType reports whether t is one of the recognized step kinds.
func knownStepType(t StepType) bool {
	switch t {
	case StepTypeAction, StepTypeIf, StepTypeElseIf, StepTypeElse,
		StepTypeWhile, StepTypeTry, StepTypeCatch, StepTypeEnd:
		return true
	}
	return false
}

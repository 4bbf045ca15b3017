package sequence

import (
	"fmt"
	"time"
)

// Nesting limits. Fixed at process start; Configure may override them once
// before any sequence is built.
var (
	// MaxLabelLength bounds the length of a sequence label.
	MaxLabelLength = 128

	// MaxIndentationLevel bounds how deeply IF/TRY/WHILE may nest.
	MaxIndentationLevel = 10
)

// Configure overrides the nesting limits. It is meant to be called once at
// startup, before any Sequence exists; values below 1 are ignored.
func Configure(maxLabelLength, maxIndentationLevel int) {
	if maxLabelLength >= 1 {
		MaxLabelLength = maxLabelLength
	}
	if maxIndentationLevel >= 1 {
		MaxIndentationLevel = maxIndentationLevel
	}
}

// ValidationError is the single error kind reported by sequence validation.
// It carries a human-readable message; no further error codes are
// distinguished.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Sequence is an ordered, labeled list of steps representing one
// automatable procedure. It owns its steps; every mutation re-runs the
// indentation pass so step levels and the sticky indentation error are
// always current.
type Sequence struct {
	label            string
	steps            []Step
	indentationError string
}

// New constructs a sequence with a descriptive label. The label must be
// non-empty and at most MaxLabelLength characters.
func New(label string) (*Sequence, error) {
	if err := checkLabel(label); err != nil {
		return nil, err
	}
	return &Sequence{label: label}, nil
}

func checkLabel(label string) error {
	if label == "" {
		return validationErrorf("sequence label may not be empty")
	}
	if len(label) > MaxLabelLength {
		return validationErrorf("label %q is too long (>%d characters)", label, MaxLabelLength)
	}
	return nil
}

// Label returns the descriptive name of the sequence.
func (s *Sequence) Label() string {
	return s.label
}

// Len returns the number of steps.
func (s *Sequence) Len() int {
	return len(s.steps)
}

// StepAt returns a pointer to the step at index i. The pointer is
// invalidated by any mutation of the sequence.
func (s *Sequence) StepAt(i int) *Step {
	return &s.steps[i]
}

// Steps returns a deep copy of the step list.
func (s *Sequence) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	for i := range out {
		if s.steps[i].Imports != nil {
			out[i].Imports = append([]string(nil), s.steps[i].Imports...)
		}
		if s.steps[i].Exports != nil {
			out[i].Exports = append([]string(nil), s.steps[i].Exports...)
		}
	}
	return out
}

// IndentationError returns the sticky error recorded by the last
// indentation pass, or an empty string if the nesting is consistent.
func (s *Sequence) IndentationError() string {
	return s.indentationError
}

// Push appends a step at the end of the sequence.
func (s *Sequence) Push(step Step) {
	s.steps = append(s.steps, step)
	s.indent()
}

// Pop removes the last step.
func (s *Sequence) Pop() error {
	if len(s.steps) == 0 {
		return validationErrorf("cannot pop from an empty sequence")
	}
	s.steps = s.steps[:len(s.steps)-1]
	s.indent()
	return nil
}

// Insert places a step before index i. Inserting at Len() appends.
func (s *Sequence) Insert(i int, step Step) error {
	if i < 0 || i > len(s.steps) {
		return validationErrorf("insert index %d out of range [0, %d]", i, len(s.steps))
	}
	s.steps = append(s.steps, Step{})
	copy(s.steps[i+1:], s.steps[i:])
	s.steps[i] = step
	s.indent()
	return nil
}

// Erase removes the step at index i.
func (s *Sequence) Erase(i int) error {
	if i < 0 || i >= len(s.steps) {
		return validationErrorf("erase index %d out of range [0, %d)", i, len(s.steps))
	}
	s.steps = append(s.steps[:i], s.steps[i+1:]...)
	s.indent()
	return nil
}

// Assign replaces the step at index i.
func (s *Sequence) Assign(i int, step Step) error {
	if i < 0 || i >= len(s.steps) {
		return validationErrorf("assign index %d out of range [0, %d)", i, len(s.steps))
	}
	s.steps[i] = step
	s.indent()
	return nil
}

// Modify edits the step at index i in place via fn.
func (s *Sequence) Modify(i int, fn func(*Step)) error {
	if i < 0 || i >= len(s.steps) {
		return validationErrorf("modify index %d out of range [0, %d)", i, len(s.steps))
	}
	fn(&s.steps[i])
	s.steps[i].lastModified = time.Now()
	s.indent()
	return nil
}

// Clone returns a deep copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	out := &Sequence{
		label:            s.label,
		indentationError: s.indentationError,
		steps:            make([]Step, len(s.steps)),
	}
	copy(out.steps, s.steps)
	for i := range out.steps {
		if s.steps[i].Imports != nil {
			out.steps[i].Imports = append([]string(nil), s.steps[i].Imports...)
		}
		if s.steps[i].Exports != nil {
			out.steps[i].Exports = append([]string(nil), s.steps[i].Exports...)
		}
	}
	return out
}

// FindEndOfBlock scans [from, to) and returns the index of the first step
// whose level is below targetLevel, or to if the block never closes within
// the range. Execution engines use it to locate block boundaries; the
// levels it relies on are only meaningful after a clean indentation pass.
func (s *Sequence) FindEndOfBlock(from, to, targetLevel int) int {
	return findEndOfIndentedBlock(s.steps, from, to, targetLevel)
}

// CheckSyntax verifies that the sequence is well-formed. The indentation
// pass must have left no error, and every control construct must satisfy
// its internal grammar. Returns nil iff the sequence is syntactically
// valid; on success every step carries a consistent indentation level.
func (s *Sequence) CheckSyntax() error {
	if s.indentationError != "" {
		return &ValidationError{Message: s.indentationError}
	}
	return s.checkSyntaxRange(0, len(s.steps))
}

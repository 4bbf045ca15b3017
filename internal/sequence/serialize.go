package sequence

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// sequenceDoc is the on-disk YAML form of a sequence.
type sequenceDoc struct {
	Label string `yaml:"label"`
	Steps []Step `yaml:"steps"`
}

// Marshal renders a sequence into its YAML document form.
func Marshal(s *Sequence) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("sequence is required")
	}
	doc := sequenceDoc{Label: s.label, Steps: s.Steps()}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal sequence %q: %w", s.label, err)
	}
	return data, nil
}

// Unmarshal parses a YAML document into a sequence. Step fields are
// trimmed and the type is normalized to lower case before validation; the
// indentation pass runs as the steps are appended, so the result carries
// current levels and any sticky indentation error.
func Unmarshal(data []byte) (*Sequence, error) {
	var doc sequenceDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	seq, err := New(strings.TrimSpace(doc.Label))
	if err != nil {
		return nil, err
	}

	for i := range doc.Steps {
		step, err := normalizeStep(doc.Steps[i])
		if err != nil {
			return nil, fmt.Errorf("sequence step %d: %w", i+1, err)
		}
		seq.Push(step)
	}

	return seq, nil
}

func normalizeStep(raw Step) (Step, error) {
	stepType := StepType(strings.ToLower(strings.TrimSpace(string(raw.Type))))
	if !knownStepType(stepType) {
		return Step{}, fmt.Errorf("unknown step type %q", raw.Type)
	}

	step := NewStep(stepType)
	step.Label = strings.TrimSpace(raw.Label)
	step.Script = strings.TrimSpace(raw.Script)
	step.Timeout = strings.TrimSpace(raw.Timeout)

	for _, name := range raw.Imports {
		name = strings.TrimSpace(name)
		if name == "" {
			return Step{}, fmt.Errorf("imported variable name is required")
		}
		step.Imports = append(step.Imports, name)
	}
	for _, name := range raw.Exports {
		name = strings.TrimSpace(name)
		if name == "" {
			return Step{}, fmt.Errorf("exported variable name is required")
		}
		step.Exports = append(step.Exports, name)
	}

	return step, nil
}

// fileNameBadCharacters are never written into sequence file names.
const fileNameBadCharacters = "/\\:?*\"'<>|$&"

// escapeFileName maps a sequence label to a filesystem-safe file name:
// control characters become spaces, reserved and non-ASCII characters are
// written as $ followed by two hex digits.
func escapeFileName(label string) string {
	var out strings.Builder
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c <= 32:
			out.WriteByte(' ')
		case c > 127 || strings.IndexByte(fileNameBadCharacters, c) >= 0:
			fmt.Fprintf(&out, "$%02x", c)
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

package sequence

import (
	"fmt"
	"strings"
)

// Render returns a human-readable listing of the sequence, one step per
// line, indented by the assigned nesting levels. Malformed sequences still
// render because the indentation pass assigns a level to every step.
func Render(s *Sequence) string {
	var out strings.Builder
	fmt.Fprintf(&out, "%s\n", s.label)

	for i := range s.steps {
		step := &s.steps[i]
		level := step.level
		if level < 0 {
			level = 0
		}

		fmt.Fprintf(&out, "%4d  %s%s", i+1, strings.Repeat("    ", level), renderType(step.Type))
		if step.Label != "" {
			fmt.Fprintf(&out, "  %s", step.Label)
		}
		if step.Script != "" {
			fmt.Fprintf(&out, "  [%s]", step.Script)
		}
		out.WriteByte('\n')
	}

	return out.String()
}

func renderType(t StepType) string {
	if t == StepTypeElseIf {
		return "ELSE IF"
	}
	return strings.ToUpper(string(t))
}

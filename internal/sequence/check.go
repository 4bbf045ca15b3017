package sequence

import "fmt"

// indent assigns a nesting level to every step in a single forward sweep
// and records the first nesting error it encounters. It never fails: even
// malformed sequences leave every step with a usable level so that
// rendering and block-boundary scans stay bounded. Only the earliest error
// of a pass is kept.
func (s *Sequence) indent() {
	level := 0
	s.indentationError = ""

	for i := range s.steps {
		step := &s.steps[i]
		stepLevel := level

		switch step.Type {
		case StepTypeAction:
			stepLevel = level
		case StepTypeIf, StepTypeTry, StepTypeWhile:
			stepLevel = level
			level++
		case StepTypeCatch, StepTypeElse, StepTypeElseIf:
			stepLevel = level - 1
		case StepTypeEnd:
			stepLevel = level - 1
			level--
		}

		// A negative step level means a stray closer; clamp so the stored
		// level stays non-negative.
		if stepLevel < 0 {
			stepLevel = 0
			s.recordIndentationError("Steps are not nested correctly")
		}

		step.level = stepLevel

		if level < 0 {
			level = 0
			s.recordIndentationError(
				"Steps are not nested correctly (every END must correspond to one IF, TRY, or WHILE)")
		} else if level > MaxIndentationLevel {
			level = MaxIndentationLevel
			s.recordIndentationError(fmt.Sprintf(
				"Steps are nested too deeply (max. level: %d)", MaxIndentationLevel))
		}
	}

	if level != 0 {
		s.recordIndentationError(
			"Steps are not nested correctly (there must be one END for each IF, TRY, WHILE)")
	}
}

// recordIndentationError keeps the first error of a pass; later findings
// are discarded.
func (s *Sequence) recordIndentationError(msg string) {
	if s.indentationError == "" {
		s.indentationError = msg
	}
}

// findEndOfIndentedBlock returns the index of the first step in [from, to)
// whose level is below targetLevel, i.e. the step that closes the current
// block. It returns to when the block never closes within the range.
func findEndOfIndentedBlock(steps []Step, from, to, targetLevel int) int {
	for i := from; i < to; i++ {
		if steps[i].level < targetLevel {
			return i
		}
	}
	return to
}

// syntaxError attributes a structural violation to the 1-based position of
// the offending step within the whole sequence.
func (s *Sequence) syntaxError(idx int, msg string) error {
	return validationErrorf("[syntax check] Step %d: %s", idx+1, msg)
}

// checkSyntaxRange walks the steps in [begin, end) and validates the
// internal grammar of each control construct by recursive descent. The
// first violation found aborts the walk.
func (s *Sequence) checkSyntaxRange(begin, end int) error {
	i := begin
	for i < end {
		switch s.steps[i].Type {
		case StepTypeWhile:
			next, err := s.checkWhile(i, end)
			if err != nil {
				return err
			}
			i = next

		case StepTypeTry:
			next, err := s.checkTry(i, end)
			if err != nil {
				return err
			}
			i = next

		case StepTypeIf:
			next, err := s.checkIf(i, end)
			if err != nil {
				return err
			}
			i = next

		case StepTypeAction:
			i++

		case StepTypeCatch:
			return s.syntaxError(i, "CATCH without matching TRY")

		case StepTypeElseIf:
			return s.syntaxError(i, "ELSE IF without matching IF")

		case StepTypeElse:
			return s.syntaxError(i, "ELSE without matching IF")

		case StepTypeEnd:
			return s.syntaxError(i, "END without matching IF/WHILE/TRY")

		default:
			return s.syntaxError(i, "Unexpected step type")
		}
	}
	return nil
}

// checkWhile validates WHILE <body> END and returns the index just past
// the terminating END.
func (s *Sequence) checkWhile(begin, end int) (int, error) {
	blockEnd := findEndOfIndentedBlock(s.steps, begin+1, end, s.steps[begin].level+1)

	if blockEnd == end || s.steps[blockEnd].Type != StepTypeEnd {
		return 0, s.syntaxError(begin, "WHILE without matching END")
	}

	if err := s.checkSyntaxRange(begin+1, blockEnd); err != nil {
		return 0, err
	}

	return blockEnd + 1, nil
}

// checkTry validates TRY <body> CATCH <handler> END and returns the index
// just past the terminating END.
func (s *Sequence) checkTry(begin, end int) (int, error) {
	catchIdx := findEndOfIndentedBlock(s.steps, begin+1, end, s.steps[begin].level+1)

	if catchIdx == end || s.steps[catchIdx].Type != StepTypeCatch {
		return 0, s.syntaxError(begin, "TRY without matching CATCH")
	}

	// Block between TRY and CATCH.
	if err := s.checkSyntaxRange(begin+1, catchIdx); err != nil {
		return 0, err
	}

	catchBlockEnd := findEndOfIndentedBlock(s.steps, catchIdx+1, end, s.steps[begin].level+1)

	if catchBlockEnd == end || s.steps[catchBlockEnd].Type != StepTypeEnd {
		return 0, s.syntaxError(begin, "TRY...CATCH without matching END")
	}

	// Block between CATCH and END.
	if err := s.checkSyntaxRange(catchIdx+1, catchBlockEnd); err != nil {
		return 0, err
	}

	return catchBlockEnd + 1, nil
}

// checkIf validates IF <body> { ELSEIF <body> } [ ELSE <body> ] END and
// returns the index just past the terminating END.
func (s *Sequence) checkIf(begin, end int) (int, error) {
	elseFound := false
	clauseStart := begin

	for {
		boundary := findEndOfIndentedBlock(
			s.steps, clauseStart+1, end, s.steps[begin].level+1)

		if boundary == end {
			return 0, s.syntaxError(begin, "IF without matching END")
		}

		if err := s.checkSyntaxRange(clauseStart+1, boundary); err != nil {
			return 0, err
		}

		switch s.steps[boundary].Type {
		case StepTypeElseIf:
			if elseFound {
				return 0, s.syntaxError(boundary, "ELSE IF after ELSE clause")
			}

		case StepTypeElse:
			if elseFound {
				return 0, s.syntaxError(boundary, "Duplicate ELSE clause")
			}
			elseFound = true

		case StepTypeEnd:
			return boundary + 1, nil

		default:
			return 0, s.syntaxError(boundary, "Unfinished IF construct")
		}

		clauseStart = boundary
	}
}

// Package executor walks validated sequences and executes their steps
// against a variable context.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sequentlab/sequent/internal/events"
	"github.com/sequentlab/sequent/internal/logging"
	"github.com/sequentlab/sequent/internal/script"
	"github.com/sequentlab/sequent/internal/sequence"
)

// Executor errors.
var (
	ErrExecutorBusy = errors.New("busy executing another sequence")
	ErrStepTimeout  = errors.New("step timed out")
)

// Config contains executor configuration.
type Config struct {
	// StepTimeout bounds a single step evaluation when the step itself
	// does not carry a timeout. Zero means no limit.
	// Default: 30 seconds.
	StepTimeout time.Duration

	// EventSink receives execution events. Nil disables event logging.
	EventSink events.Repository
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		StepTimeout: 30 * time.Second,
	}
}

// Executor runs sequences synchronously. It is stateless between runs and
// safe for concurrent use as long as each call gets its own sequence.
type Executor struct {
	cfg    Config
	logger zerolog.Logger
}

// New constructs an executor with the provided configuration.
func New(cfg Config) *Executor {
	if cfg.StepTimeout < 0 {
		cfg.StepTimeout = 0
	}
	return &Executor{
		cfg:    cfg,
		logger: logging.Component("executor"),
	}
}

// Run validates and executes the sequence against vars. The sequence must
// pass CheckSyntax; the walk then selects IF/ELSEIF/ELSE clauses, repeats
// WHILE bodies, and recovers from step errors inside TRY bodies by running
// the CATCH handler. vars is mutated in place by steps that export values.
func (e *Executor) Run(ctx context.Context, seq *sequence.Sequence, vars script.Context) error {
	if seq == nil {
		return fmt.Errorf("sequence is required")
	}
	if err := seq.CheckSyntax(); err != nil {
		return err
	}
	if vars == nil {
		vars = script.Context{}
	}

	started := time.Now()
	e.emit(func() error {
		return events.LogSequenceStarted(ctx, e.cfg.EventSink, seq.Label())
	})
	e.logger.Info().Str("sequence", seq.Label()).Int("steps", seq.Len()).Msg("sequence started")

	err := e.runRange(ctx, seq, vars, 0, seq.Len())
	elapsed := time.Since(started)

	if err != nil {
		e.emit(func() error {
			return events.LogSequenceFailed(ctx, e.cfg.EventSink, seq.Label(), err.Error())
		})
		e.logger.Error().Str("sequence", seq.Label()).Err(err).Msg("sequence failed")
		return err
	}

	e.emit(func() error {
		return events.LogSequenceCompleted(ctx, e.cfg.EventSink, seq.Label(), seq.Len(), elapsed.String())
	})
	e.logger.Info().Str("sequence", seq.Label()).Dur("elapsed", elapsed).Msg("sequence completed")
	return nil
}

// runRange executes the steps in [begin, end).
func (e *Executor) runRange(ctx context.Context, seq *sequence.Sequence, vars script.Context, begin, end int) error {
	i := begin
	for i < end {
		if err := ctx.Err(); err != nil {
			return err
		}

		step := seq.StepAt(i)
		switch step.Type {
		case sequence.StepTypeAction:
			if err := e.runAction(ctx, seq, vars, i); err != nil {
				return err
			}
			i++

		case sequence.StepTypeWhile:
			next, err := e.runWhile(ctx, seq, vars, i, end)
			if err != nil {
				return err
			}
			i = next

		case sequence.StepTypeTry:
			next, err := e.runTry(ctx, seq, vars, i, end)
			if err != nil {
				return err
			}
			i = next

		case sequence.StepTypeIf:
			next, err := e.runIf(ctx, seq, vars, i, end)
			if err != nil {
				return err
			}
			i = next

		default:
			// CheckSyntax rules these out before the walk starts.
			return fmt.Errorf("step %d: unexpected %s during execution", i+1, step.Type)
		}
	}
	return nil
}

// runAction evaluates an action step's script and stores its result under
// the step's exported variable names. The script reads a private snapshot of
// vars, so an evaluation abandoned by the step timeout never races with
// exports written by later steps.
func (e *Executor) runAction(ctx context.Context, seq *sequence.Sequence, vars script.Context, idx int) error {
	step := seq.StepAt(idx)
	snapshot := vars.Clone()

	result, err := e.timeStep(ctx, seq, idx, func() (any, error) {
		return script.Evaluate(step.Script, snapshot)
	})
	if err != nil {
		return err
	}

	if result != nil && len(step.Exports) > 0 {
		value, err := script.NormalizeValue(result)
		if err != nil {
			return fmt.Errorf("step %d: %w", idx+1, err)
		}
		for _, name := range step.Exports {
			if err := script.CheckVariableName(name); err != nil {
				return fmt.Errorf("step %d: %w", idx+1, err)
			}
			vars[name] = value
		}
	}
	return nil
}

// runCondition evaluates the condition script of an IF/ELSEIF/WHILE step
// against a private snapshot of vars (see runAction).
func (e *Executor) runCondition(ctx context.Context, seq *sequence.Sequence, vars script.Context, idx int) (bool, error) {
	step := seq.StepAt(idx)
	snapshot := vars.Clone()

	result, err := e.timeStep(ctx, seq, idx, func() (any, error) {
		return script.EvaluateBool(step.Script, snapshot)
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// timeStep wraps one step evaluation with running-state bookkeeping, event
// emission, and the per-step timeout.
func (e *Executor) timeStep(ctx context.Context, seq *sequence.Sequence, idx int, eval func() (any, error)) (any, error) {
	step := seq.StepAt(idx)
	label := seq.Label()

	step.SetRunning(true)
	defer step.SetRunning(false)

	e.emit(func() error {
		return events.LogStepStarted(ctx, e.cfg.EventSink, label, idx+1, string(step.Type), step.Label)
	})

	started := time.Now()
	result, err := e.evalWithTimeout(step.TimeoutDuration(e.cfg.StepTimeout), eval)
	elapsed := time.Since(started)

	step.MarkExecuted(time.Now())

	if err != nil {
		wrapped := fmt.Errorf("step %d: %w", idx+1, err)
		e.emit(func() error {
			return events.LogStepFailed(ctx, e.cfg.EventSink, label, idx+1, string(step.Type), err.Error())
		})
		e.logger.Debug().Str("sequence", label).Int("step", idx+1).Err(err).Msg("step failed")
		return nil, wrapped
	}

	e.emit(func() error {
		return events.LogStepCompleted(ctx, e.cfg.EventSink, label, idx+1, string(step.Type), elapsed.String())
	})
	return result, nil
}

// evalWithTimeout bounds eval by the given timeout. A timed-out evaluation
// is abandoned; its goroutine finishes in the background.
func (e *Executor) evalWithTimeout(timeout time.Duration, eval func() (any, error)) (any, error) {
	if timeout <= 0 {
		return eval()
	}

	type outcome struct {
		result any
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := eval()
		done <- outcome{result: result, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.result, out.err
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrStepTimeout, timeout)
	}
}

// runWhile repeats the body while the condition holds, then resumes after
// the matching END.
func (e *Executor) runWhile(ctx context.Context, seq *sequence.Sequence, vars script.Context, begin, end int) (int, error) {
	level := seq.StepAt(begin).IndentationLevel()
	blockEnd := seq.FindEndOfBlock(begin+1, end, level+1)

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		proceed, err := e.runCondition(ctx, seq, vars, begin)
		if err != nil {
			return 0, err
		}
		if !proceed {
			return blockEnd + 1, nil
		}

		if err := e.runRange(ctx, seq, vars, begin+1, blockEnd); err != nil {
			return 0, err
		}
	}
}

// runTry executes the body and, if a step inside it fails, the CATCH
// handler. Errors inside the handler propagate; context cancellation is
// never caught.
func (e *Executor) runTry(ctx context.Context, seq *sequence.Sequence, vars script.Context, begin, end int) (int, error) {
	level := seq.StepAt(begin).IndentationLevel()
	catchIdx := seq.FindEndOfBlock(begin+1, end, level+1)
	blockEnd := seq.FindEndOfBlock(catchIdx+1, end, level+1)

	err := e.runRange(ctx, seq, vars, begin+1, catchIdx)
	if err != nil {
		if ctx.Err() != nil {
			return 0, err
		}

		e.logger.Debug().Str("sequence", seq.Label()).Int("step", begin+1).
			Err(err).Msg("error caught by try block")

		if err := e.runRange(ctx, seq, vars, catchIdx+1, blockEnd); err != nil {
			return 0, err
		}
	}

	return blockEnd + 1, nil
}

// runIf selects the first clause whose condition holds (ELSE always
// holds), runs it, and resumes after the construct's END.
func (e *Executor) runIf(ctx context.Context, seq *sequence.Sequence, vars script.Context, begin, end int) (int, error) {
	level := seq.StepAt(begin).IndentationLevel()
	clauseStart := begin
	taken := false

	for {
		boundary := seq.FindEndOfBlock(clauseStart+1, end, level+1)

		runClause := false
		if !taken {
			switch seq.StepAt(clauseStart).Type {
			case sequence.StepTypeIf, sequence.StepTypeElseIf:
				proceed, err := e.runCondition(ctx, seq, vars, clauseStart)
				if err != nil {
					return 0, err
				}
				runClause = proceed
			case sequence.StepTypeElse:
				runClause = true
			}
		}

		if runClause {
			taken = true
			if err := e.runRange(ctx, seq, vars, clauseStart+1, boundary); err != nil {
				return 0, err
			}
		}

		if seq.StepAt(boundary).Type == sequence.StepTypeEnd {
			return boundary + 1, nil
		}
		clauseStart = boundary
	}
}

// emit writes an execution event, logging instead of failing the run when
// the sink rejects it.
func (e *Executor) emit(write func() error) {
	if e.cfg.EventSink == nil {
		return
	}
	if err := write(); err != nil {
		e.logger.Warn().Err(err).Msg("failed to record execution event")
	}
}

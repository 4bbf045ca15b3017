package executor

import (
	"context"
	"sync"

	"github.com/sequentlab/sequent/internal/script"
	"github.com/sequentlab/sequent/internal/sequence"
)

// Runner executes one sequence at a time in the background. It owns a
// private copy of the sequence and variables for the duration of the run,
// so the caller's sequence stays free for editing.
type Runner struct {
	exec *Executor

	mu      sync.Mutex
	running bool
	done    chan struct{}
	err     error
}

// NewRunner wraps an executor for asynchronous runs.
func NewRunner(exec *Executor) *Runner {
	return &Runner{exec: exec}
}

// Start launches the sequence in a goroutine. It returns ErrExecutorBusy
// while a previous run is still in flight.
func (r *Runner) Start(ctx context.Context, seq *sequence.Sequence, vars script.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return ErrExecutorBusy
	}

	// The run works on copies; the caller keeps the originals.
	ownSeq := seq.Clone()
	ownVars := vars.Clone()
	if ownVars == nil {
		ownVars = script.Context{}
	}

	r.running = true
	r.done = make(chan struct{})
	done := r.done

	go func() {
		err := r.exec.Run(ctx, ownSeq, ownVars)

		r.mu.Lock()
		r.err = err
		r.running = false
		r.mu.Unlock()

		close(done)
	}()

	return nil
}

// Busy reports whether a run is in flight.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Wait blocks until the current run finishes and returns its error. It
// returns nil immediately when nothing was started.
func (r *Runner) Wait() error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done == nil {
		return nil
	}
	<-done

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

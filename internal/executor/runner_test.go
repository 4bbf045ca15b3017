package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sequentlab/sequent/internal/models"
	"github.com/sequentlab/sequent/internal/script"
	"github.com/sequentlab/sequent/internal/sequence"
)

// gateSink blocks the first event write until released, keeping a run in
// flight for as long as the test needs.
type gateSink struct {
	release chan struct{}
}

func (s *gateSink) Create(ctx context.Context, event *models.Event) error {
	<-s.release
	return nil
}

func TestRunnerRejectsConcurrentRuns(t *testing.T) {
	sink := &gateSink{release: make(chan struct{})}
	cfg := DefaultConfig()
	cfg.EventSink = sink

	runner := NewRunner(New(cfg))
	seq := mustSequence(t, "async",
		step(sequence.StepTypeAction, "1 + 1", "sum"),
	)

	require.NoError(t, runner.Start(context.Background(), seq, script.Context{}))
	require.True(t, runner.Busy())

	err := runner.Start(context.Background(), seq, script.Context{})
	require.ErrorIs(t, err, ErrExecutorBusy)

	close(sink.release)
	require.NoError(t, runner.Wait())
	require.False(t, runner.Busy())

	// A finished runner accepts the next sequence.
	require.NoError(t, runner.Start(context.Background(), seq, script.Context{}))
	require.NoError(t, runner.Wait())
}

func TestRunnerWorksOnACopy(t *testing.T) {
	runner := NewRunner(New(DefaultConfig()))
	seq := mustSequence(t, "copied",
		step(sequence.StepTypeAction, "\"x\"", "marker"),
	)

	vars := script.Context{}
	require.NoError(t, runner.Start(context.Background(), seq, vars))
	require.NoError(t, runner.Wait())

	// The runner ran against its own copies; the caller's context stays
	// untouched.
	require.NotContains(t, vars, "marker")
}

func TestRunnerReportsRunError(t *testing.T) {
	runner := NewRunner(New(DefaultConfig()))
	seq := mustSequence(t, "failing async",
		step(sequence.StepTypeAction, "undefined_fn()"),
	)

	require.NoError(t, runner.Start(context.Background(), seq, script.Context{}))
	err := runner.Wait()
	require.Error(t, err)
	require.Contains(t, err.Error(), "step 1")
}

func TestRunnerWaitWithoutStart(t *testing.T) {
	runner := NewRunner(New(DefaultConfig()))
	require.NoError(t, runner.Wait())
}

func TestRunnerHonorsCancellation(t *testing.T) {
	runner := NewRunner(New(DefaultConfig()))
	seq := mustSequence(t, "cancelled async",
		step(sequence.StepTypeWhile, "true"),
		step(sequence.StepTypeAction, "1"),
		step(sequence.StepTypeEnd, ""),
	)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, runner.Start(ctx, seq, script.Context{}))

	time.Sleep(20 * time.Millisecond)
	cancel()

	require.ErrorIs(t, runner.Wait(), context.Canceled)
}

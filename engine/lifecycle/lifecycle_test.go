package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder builds stages that append their name to a shared call log.
type recorder struct {
	calls []string
}

func (r *recorder) stage(name string, target State, outcome Outcome, err error) Stage {
	return NewStage(name, target, func(ctx context.Context) (Outcome, error) {
		r.calls = append(r.calls, name)
		return outcome, err
	})
}

type transition struct {
	from, to State
}

func TestInitializeRunsStagesInOrder(t *testing.T) {
	rec := &recorder{}
	var transitions []transition
	d := NewDriver(WithTransitionHook(func(from, to State) {
		transitions = append(transitions, transition{from, to})
		rec.calls = append(rec.calls, "hook:"+to.String())
	}))

	err := d.Initialize(context.Background(),
		rec.stage("base", BaseReady, Completed, nil),
		rec.stage("xr", XrReady, Completed, nil),
		rec.stage("content", ContentReady, Completed, nil),
	)
	require.NoError(t, err)

	assert.Equal(t, ContentReady, d.State())
	assert.Equal(t, []string{"base", "hook:BaseReady", "xr", "hook:XrReady", "content", "hook:ContentReady"}, rec.calls)
	assert.Equal(t, []transition{{Uninitialized, BaseReady}, {BaseReady, XrReady}, {XrReady, ContentReady}}, transitions)

	select {
	case <-d.Done():
	default:
		t.Fatal("Done not closed after Initialize returned")
	}
	assert.NoError(t, d.Err())
}

func TestDegradedStopsChainWithoutError(t *testing.T) {
	rec := &recorder{}
	d := NewDriver()

	err := d.Initialize(context.Background(),
		rec.stage("base", BaseReady, Completed, nil),
		rec.stage("xr", XrReady, Completed, nil),
		rec.stage("content", ContentReady, Degraded, nil),
		rec.stage("extra", ContentReady, Completed, nil),
	)
	require.NoError(t, err)

	assert.Equal(t, XrReady, d.State())
	assert.Equal(t, []string{"base", "xr", "content"}, rec.calls)
}

func TestFatalErrorAbortsChain(t *testing.T) {
	boom := errors.New("camera construction failed")
	rec := &recorder{}
	d := NewDriver()

	err := d.Initialize(context.Background(),
		rec.stage("base", BaseReady, Completed, boom),
		rec.stage("xr", XrReady, Completed, nil),
	)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "base")

	assert.Equal(t, Uninitialized, d.State())
	assert.Equal(t, []string{"base"}, rec.calls)
	assert.ErrorIs(t, d.Err(), boom)
}

func TestOutOfOrderStages(t *testing.T) {
	t.Run("skipping a state", func(t *testing.T) {
		rec := &recorder{}
		d := NewDriver()
		err := d.Initialize(context.Background(), rec.stage("xr", XrReady, Completed, nil))
		assert.ErrorIs(t, err, ErrOutOfOrder)
		assert.Empty(t, rec.calls)
		assert.Equal(t, Uninitialized, d.State())
	})

	t.Run("going backwards", func(t *testing.T) {
		rec := &recorder{}
		d := NewDriver()
		err := d.Initialize(context.Background(),
			rec.stage("base", BaseReady, Completed, nil),
			rec.stage("xr", XrReady, Completed, nil),
			rec.stage("base again", BaseReady, Completed, nil),
		)
		assert.ErrorIs(t, err, ErrOutOfOrder)
		assert.Equal(t, []string{"base", "xr"}, rec.calls)
		assert.Equal(t, XrReady, d.State())
	})
}

func TestSameTargetStageDoesNotFireHooks(t *testing.T) {
	rec := &recorder{}
	hooks := 0
	d := NewDriver(WithTransitionHook(func(from, to State) { hooks++ }))

	err := d.Initialize(context.Background(),
		rec.stage("base", BaseReady, Completed, nil),
		rec.stage("base extension", BaseReady, Completed, nil),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, hooks)
	assert.Equal(t, []string{"base", "base extension"}, rec.calls)

	// A later chain continues from the reached state.
	require.NoError(t, d.Initialize(context.Background(), rec.stage("xr", XrReady, Completed, nil)))
	assert.Equal(t, XrReady, d.State())
	assert.Equal(t, 2, hooks)
}

func TestCancelledContextStopsBeforeNextStage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	d := NewDriver()

	cancelling := NewStage("base", BaseReady, func(ctx context.Context) (Outcome, error) {
		rec.calls = append(rec.calls, "base")
		cancel()
		return Completed, nil
	})

	err := d.Initialize(ctx, cancelling, rec.stage("xr", XrReady, Completed, nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, BaseReady, d.State())
	assert.Equal(t, []string{"base"}, rec.calls)
}

func TestConcurrentInitializeIsRejected(t *testing.T) {
	d := NewDriver()
	entered := make(chan struct{})
	release := make(chan struct{})

	blocking := NewStage("base", BaseReady, func(ctx context.Context) (Outcome, error) {
		close(entered)
		<-release
		return Completed, nil
	})

	result := make(chan error, 1)
	go func() { result <- d.Initialize(context.Background(), blocking) }()

	<-entered
	assert.ErrorIs(t, d.Initialize(context.Background()), ErrBusy)
	close(release)
	require.NoError(t, <-result)
	assert.Equal(t, BaseReady, d.State())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "XrReady", XrReady.String())
	assert.Equal(t, "State(9)", State(9).String())
	assert.Equal(t, "Degraded", Degraded.String())
}

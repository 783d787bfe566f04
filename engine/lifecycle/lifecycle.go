package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// State is the initialization level a scene has reached. States only move forward.
type State int

const (
	// Uninitialized is the state before any stage has completed.
	Uninitialized State = iota
	// BaseReady means environment, lighting, camera and shadows are set up.
	BaseReady
	// XrReady means XR setup has been attempted.
	XrReady
	// ContentReady means the hero asset is loaded and the UI has transitioned.
	ContentReady
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case BaseReady:
		return "BaseReady"
	case XrReady:
		return "XrReady"
	case ContentReady:
		return "ContentReady"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is the non-fatal result of a stage.
type Outcome int

const (
	// Completed advances the driver to the stage target.
	Completed Outcome = iota
	// Degraded keeps the current state and ends the chain without an error.
	Degraded
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "Completed"
	case Degraded:
		return "Degraded"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

var (
	// ErrOutOfOrder is returned when a stage target is behind the current state or skips a state.
	ErrOutOfOrder = errors.New("lifecycle: stage out of order")
	// ErrBusy is returned when Initialize is called while another chain is running.
	ErrBusy = errors.New("lifecycle: initialization already running")
)

// Stage is one ordered unit of scene setup.
type Stage interface {
	// Name identifies the stage in logs and errors.
	Name() string

	// Target is the state the driver moves to when the stage completes.
	// It must equal the current state or the one directly after it.
	Target() State

	// Run performs the stage. A returned error is fatal to the chain.
	//
	// Parameters:
	//   - ctx: cancels blocking sub-steps
	//
	// Returns:
	//   - Outcome: Completed or Degraded
	//   - error: a fatal setup failure
	Run(ctx context.Context) (Outcome, error)
}

// stageFunc adapts a function to the Stage interface.
type stageFunc struct {
	name   string
	target State
	run    func(ctx context.Context) (Outcome, error)
}

// NewStage wraps a function as a Stage.
//
// Parameters:
//   - name: the stage name
//   - target: the state reached on completion
//   - run: the stage body
//
// Returns:
//   - Stage: the stage
func NewStage(name string, target State, run func(ctx context.Context) (Outcome, error)) Stage {
	return &stageFunc{name: name, target: target, run: run}
}

func (s *stageFunc) Name() string {
	return s.name
}

func (s *stageFunc) Target() State {
	return s.target
}

func (s *stageFunc) Run(ctx context.Context) (Outcome, error) {
	return s.run(ctx)
}

// TransitionHook observes a forward state change.
type TransitionHook func(from, to State)

// driver is the implementation of the Driver interface.
type driver struct {
	mu      sync.Mutex
	state   State
	running bool
	err     error

	hooks  []TransitionHook
	logger *slog.Logger

	done     chan struct{}
	doneOnce sync.Once
}

// Driver runs setup stages strictly in sequence and tracks the resulting State.
type Driver interface {
	// Initialize runs stages one after another. Each stage starts only after the
	// previous one has settled. A Degraded outcome stops the chain without error.
	//
	// Parameters:
	//   - ctx: checked before every stage and passed to it
	//   - stages: the ordered stages
	//
	// Returns:
	//   - error: ErrOutOfOrder, ErrBusy, ctx.Err() or the first fatal stage error
	Initialize(ctx context.Context, stages ...Stage) error

	// State returns the current state.
	//
	// Returns:
	//   - State: the highest state reached
	State() State

	// Done returns a channel closed when the first Initialize call returns.
	//
	// Returns:
	//   - <-chan struct{}: the settle signal
	Done() <-chan struct{}

	// Err returns the fatal error of the last chain, if any.
	//
	// Returns:
	//   - error: the error or nil
	Err() error
}

var _ Driver = &driver{}

// NewDriver creates a Driver in the Uninitialized state.
//
// Parameters:
//   - options: functional options to configure the driver
//
// Returns:
//   - Driver: the new driver
func NewDriver(options ...DriverBuilderOption) Driver {
	d := &driver{
		state:  Uninitialized,
		logger: slog.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *driver) Initialize(ctx context.Context, stages ...Stage) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return ErrBusy
	}
	d.running = true
	d.mu.Unlock()

	err := d.runChain(ctx, stages)

	d.mu.Lock()
	d.running = false
	d.err = err
	d.mu.Unlock()
	d.doneOnce.Do(func() { close(d.done) })

	return err
}

func (d *driver) runChain(ctx context.Context, stages []Stage) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}

		current := d.State()
		target := st.Target()
		if target < current || target > current+1 {
			return fmt.Errorf("%w: %s targets %s from %s", ErrOutOfOrder, st.Name(), target, current)
		}

		d.logger.Debug("stage starting", "stage", st.Name(), "state", current)

		outcome, err := st.Run(ctx)
		if err != nil {
			d.logger.Error("stage failed", "stage", st.Name(), "state", current, "error", err)
			return fmt.Errorf("lifecycle: stage %s: %w", st.Name(), err)
		}

		if outcome == Degraded {
			d.logger.Warn("stage degraded", "stage", st.Name(), "state", current)
			return nil
		}

		d.advance(current, target)
	}
	return nil
}

func (d *driver) advance(from, to State) {
	if to == from {
		return
	}

	d.mu.Lock()
	d.state = to
	hooks := append([]TransitionHook(nil), d.hooks...)
	d.mu.Unlock()

	d.logger.Info("lifecycle transition", "from", from, "to", to)
	for _, h := range hooks {
		h(from, to)
	}
}

func (d *driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *driver) Done() <-chan struct{} {
	return d.done
}

func (d *driver) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

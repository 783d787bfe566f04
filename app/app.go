// Package app wires the window, renderer, engine and scene setup stages into a
// runnable VR demo application.
package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/config"
	"github.com/Carmen-Shannon/oxy-vr/engine"
	"github.com/Carmen-Shannon/oxy-vr/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-vr/engine/loader"
	"github.com/Carmen-Shannon/oxy-vr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vr/engine/scene"
	"github.com/Carmen-Shannon/oxy-vr/engine/setup"
	"github.com/Carmen-Shannon/oxy-vr/engine/ui"
	"github.com/Carmen-Shannon/oxy-vr/engine/window"
	"github.com/Carmen-Shannon/oxy-vr/engine/xr"
)

// ErrAlreadyRunning is returned by Run when the application has already been started.
var ErrAlreadyRunning = errors.New("app: already running")

// Application owns the engine and the staged initialization of the demo scene.
// Pressing V toggles the immersive session once the XR stage has attached an
// experience; the window title shows "VR" while the session is active.
type Application interface {
	// Run starts the initialization chain in the background and then pumps the
	// render loop on the calling goroutine until the window closes, ctx is
	// cancelled or Shutdown is called. Resources are released before it returns.
	//
	// Parameters:
	//   - ctx: cancels initialization and the render loop
	//
	// Returns:
	//   - error: a fatal initialization error, or ErrAlreadyRunning
	Run(ctx context.Context) error

	// Shutdown stops initialization and asks the render loop to exit.
	// Safe to call multiple times and from any goroutine.
	Shutdown()

	// Initialized returns a channel closed once the initialization chain has finished.
	Initialized() <-chan struct{}

	// InitErr returns the fatal initialization error, if any.
	InitErr() error

	// State returns the last lifecycle state reached.
	State() lifecycle.State

	// Engine returns the underlying engine.
	Engine() engine.Engine

	// Scene returns the scene being built.
	Scene() scene.Scene

	// Overlay returns the UI overlay.
	Overlay() ui.Overlay
}

type application struct {
	mu *sync.Mutex

	cfg    config.Config
	logger *slog.Logger

	window   window.Window
	input    *keyRouter
	renderer renderer.Renderer
	engine   engine.Engine
	scene    scene.Scene
	overlay  ui.Overlay
	importer setup.Importer
	provider xr.Provider
	driver   lifecycle.Driver

	hooks  []lifecycle.TransitionHook
	stages []lifecycle.Stage
	extra  []lifecycle.Stage

	// ownedLoader is closed on exit when the application created the importer.
	ownedLoader loader.Loader
	ownsWindow  bool
	ownsRender  bool

	running  bool
	runCtx   context.Context
	stopOnce sync.Once
	stopped  chan struct{}
}

var _ Application = &application{}

// NewApplication builds every collaborator the demo needs. Collaborators supplied
// through options are used as-is; the rest are created from cfg.
//
// Parameters:
//   - cfg: application and scene configuration
//   - options: variadic list of ApplicationBuilderOption functions
//
// Returns:
//   - Application: the assembled application
//   - error: invalid configuration or window/renderer creation failures
func NewApplication(cfg config.Config, options ...ApplicationBuilderOption) (Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &application{
		mu:      &sync.Mutex{},
		cfg:     cfg,
		stopped: make(chan struct{}),
	}
	for _, opt := range options {
		opt(a)
	}
	if a.logger == nil {
		a.logger = cfg.NewLogger(os.Stderr)
	}

	if err := a.buildSurface(); err != nil {
		return nil, err
	}
	a.input = newKeyRouter(a.window)
	a.input.bind(common.KeyV, a.toggleXR)

	if a.scene == nil {
		a.scene = scene.NewScene(scene.WithName(cfg.Scene.Name), scene.WithActive(true))
	}
	if a.overlay == nil {
		a.overlay = ui.NewOverlay(
			ui.WithElement(cfg.UI.LoadingScreenID, cfg.UI.LoadingScreenLabel, true),
			ui.WithElement(cfg.UI.WelcomeScreenID, cfg.UI.WelcomeScreenLabel, false),
		)
	}
	a.overlay.OnChange(func(string, bool) { a.mirrorTitle() })
	a.mirrorTitle()

	if a.importer == nil {
		l := loader.NewLoader(loader.BackendTypeGLTF,
			loader.WithOfflineSupport(cfg.Loader.OfflineSupport),
			loader.WithWorkers(cfg.Loader.Workers),
			loader.WithLogger(a.logger),
		)
		a.importer = l
		a.ownedLoader = l
	}
	if a.provider == nil {
		providerOpts := []xr.ProviderBuilderOption{xr.WithLogger(a.logger)}
		if cfg.XR.Emulated {
			providerOpts = append(providerOpts, xr.WithRuntime(xr.NewEmulatedRuntime()))
		}
		a.provider = xr.NewProvider(providerOpts...)
	}

	a.engine = engine.NewEngine(
		engine.WithWindow(a.window),
		engine.WithRenderer(a.renderer),
		engine.WithScene(a.scene),
		engine.WithRenderFrameLimit(cfg.Renderer.FrameLimit),
		engine.WithProfiling(cfg.Renderer.Profiling),
		engine.WithLogger(a.logger),
	)

	driverOpts := []lifecycle.DriverBuilderOption{lifecycle.WithLogger(a.logger)}
	for _, hook := range a.hooks {
		driverOpts = append(driverOpts, lifecycle.WithTransitionHook(hook))
	}
	a.driver = lifecycle.NewDriver(driverOpts...)

	stageOpts := []setup.StageBuilderOption{
		setup.WithLogger(a.logger),
		setup.WithInput(a.input),
	}
	if h := a.window.Height(); h > 0 {
		stageOpts = append(stageOpts, setup.WithAspect(float32(a.window.Width())/float32(h)))
	}
	a.stages = append(setup.NewDefaultStages(a.scene, a.provider, a.importer, a.overlay, cfg, stageOpts...), a.extra...)

	return a, nil
}

// buildSurface creates the window and renderer unless they were injected.
func (a *application) buildSurface() error {
	if a.window == nil {
		w, err := window.NewWindow(
			window.WithTitle(a.cfg.Window.Title),
			window.WithSize(a.cfg.Window.Width, a.cfg.Window.Height),
			window.WithMinSize(a.cfg.Window.MinWidth, a.cfg.Window.MinHeight),
			window.WithMaxSize(a.cfg.Window.MaxWidth, a.cfg.Window.MaxHeight),
		)
		if err != nil {
			return err
		}
		a.window = w
		a.ownsWindow = true
	}

	if a.renderer == nil {
		r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, a.window, rendererOptions(a.cfg.Renderer, a.logger)...)
		if err != nil {
			if a.ownsWindow {
				_ = a.window.Close()
			}
			return err
		}
		a.renderer = r
		a.ownsRender = true
	}
	return nil
}

// rendererOptions maps the renderer section of the configuration to renderer options.
func rendererOptions(rc config.RendererConfig, logger *slog.Logger) []renderer.RendererBuilderOption {
	present := renderer.PresentModeUncapped
	if rc.VSync {
		present = renderer.PresentModeVSync
	}
	msaa := renderer.MSAAOff
	if rc.MSAA {
		msaa = renderer.MSAA4x
	}
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(present),
		renderer.WithMSAA(msaa),
		renderer.WithStencil(rc.Stencil),
		renderer.WithPreserveDrawingBuffer(rc.PreserveDrawingBuffer),
		renderer.WithForceSoftwareRenderer(rc.ForceSoftware),
		renderer.WithLogger(logger),
	}
}

func (a *application) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.mu.Lock()
	a.runCtx = ctx
	a.mu.Unlock()

	go func() {
		select {
		case <-a.stopped:
			cancel()
		case <-ctx.Done():
		}
	}()

	initDone := make(chan error, 1)
	go func() {
		err := a.driver.Initialize(ctx, a.stages...)
		if err != nil && ctx.Err() == nil {
			a.logger.Error("scene initialization failed", "error", err)
			a.engine.Quit()
		}
		initDone <- err
	}()

	runErr := a.engine.Run(ctx)
	cancel()
	initErr := <-initDone

	a.release()

	if runErr != nil {
		return runErr
	}
	if initErr != nil && !errors.Is(initErr, context.Canceled) && !errors.Is(initErr, context.DeadlineExceeded) {
		return initErr
	}
	return nil
}

func (a *application) Shutdown() {
	a.stopOnce.Do(func() {
		close(a.stopped)
	})
	a.engine.Quit()
}

func (a *application) Initialized() <-chan struct{} {
	return a.driver.Done()
}

func (a *application) InitErr() error {
	return a.driver.Err()
}

func (a *application) State() lifecycle.State {
	return a.driver.State()
}

func (a *application) Engine() engine.Engine {
	return a.engine
}

func (a *application) Scene() scene.Scene {
	return a.scene
}

func (a *application) Overlay() ui.Overlay {
	return a.overlay
}

// release frees the resources the application created.
func (a *application) release() {
	if a.ownedLoader != nil {
		a.ownedLoader.Close()
	}
	if a.ownsRender {
		a.renderer.Release()
	}
	if a.ownsWindow {
		if err := a.window.Close(); err != nil {
			a.logger.Warn("window close failed", "error", err)
		}
	}
}

// mirrorTitle shows the visible overlay labels, and "VR" during a session, in the window title.
func (a *application) mirrorTitle() {
	title := a.cfg.Window.Title
	labels := a.overlay.VisibleLabels()
	if exp, ok := a.scene.XR(); ok && exp.InXR() {
		labels = append(labels, "VR")
	}
	if len(labels) > 0 {
		title += " - " + strings.Join(labels, " | ")
	}
	a.window.SetTitle(title)
}

package engine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-vr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vr/engine/scene"
	"github.com/Carmen-Shannon/oxy-vr/engine/window"
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine has no window")

// engine implements the Engine interface.
// Coordinates the render goroutine with the window message loop.
type engine struct {
	mu *sync.Mutex
	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene
	logger   *slog.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine hosts the render loop for one active scene.
//
// It owns the window message loop on the calling goroutine and renders the active
// scene on its own goroutine every frame. Window resizes reconfigure the renderer
// once per event and keep the camera aspect ratio in step.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer frames are submitted to.
	//
	// Returns:
	//   - renderer.Renderer: the renderer, or nil if none was configured
	Renderer() renderer.Renderer

	// Scene returns the active scene.
	//
	// Returns:
	//   - scene.Scene: the active scene, or nil
	Scene() scene.Scene

	// SetScene replaces the active scene. Safe to call while running.
	//
	// Parameters:
	//   - s: the scene to render
	SetScene(s scene.Scene)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderCallback registers the function called after each render frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the render goroutine and pumps window messages on the calling
	// goroutine until the window closes, ctx is cancelled or Quit is called.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ErrNoWindow if the engine has no window
	Run(ctx context.Context) error

	// Quit signals all engine goroutines to stop and asks the window to close.
	// Safe to call multiple times and from any goroutine.
	Quit()

	// Done returns a channel closed once the engine has been asked to stop.
	Done() <-chan struct{}
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, scene, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:          &sync.Mutex{},
		quitChannel: make(chan struct{}),
		logger:      slog.Default(),
	}

	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))

	if e.window != nil {
		e.window.SetResizeCallback(e.handleResize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene
}

func (e *engine) SetScene(s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene = s
}

func (e *engine) Run(ctx context.Context) error {
	if e.window == nil {
		return ErrNoWindow
	}

	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.window.RequestClose()
		default:
		}
	})

	e.wg.Add(2)
	go e.handleRender()
	go e.handleContext(ctx)

	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
	return nil
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
	if e.window != nil {
		e.window.RequestClose()
	}
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleResize reconfigures the renderer once and updates the active camera aspect.
func (e *engine) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	if s := e.Scene(); s != nil {
		if c, ok := s.Camera(); ok {
			c.SetAspect(float32(width) / float32(height))
		}
	}
}

// handleContext quits the engine when ctx is cancelled.
func (e *engine) handleContext(ctx context.Context) {
	defer e.wg.Done()
	select {
	case <-ctx.Done():
		e.Quit()
	case <-e.quitChannel:
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Each frame snapshots the active scene and submits it to the renderer. Render
// errors are logged and the next frame is attempted. Recovers from panics to avoid
// crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("render goroutine recovered from panic", "panic", r)
			e.Quit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		s := e.Scene()
		if s != nil && s.Active() && e.renderer != nil {
			if err := e.renderer.Render(s.BuildFrame()); err != nil {
				e.logger.Debug("frame skipped", "error", err)
			}
		}

		e.mu.Lock()
		renderCallback := e.renderCallback
		profiling := e.profilingEnabled
		limit := e.renderFrameLimit
		e.mu.Unlock()

		if renderCallback != nil {
			renderCallback(dt)
		}

		if profiling {
			e.profiler.Tick()
		}

		if limit > 0 {
			if remaining := limit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		} else {
			runtime.Gosched()
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

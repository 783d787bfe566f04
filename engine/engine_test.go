package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-vr/engine/camera"
	"github.com/Carmen-Shannon/oxy-vr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vr/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	mu       sync.Mutex
	closed   atomic.Bool
	onUpdate func()
	onResize func(width, height int)
	title    string
}

func (w *fakeWindow) SetUpdateCallback(cb func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onUpdate = cb
}

func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = cb
}

func (w *fakeWindow) SetScrollCallback(func(delta float32)) {}
func (w *fakeWindow) SetPointerDragCallback(func(button int, dx, dy float32)) {}
func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32)) {}
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32)) {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) Title() string { return w.title }
func (w *fakeWindow) SetTitle(title string) { w.title = title }
func (w *fakeWindow) IsRunning() bool { return !w.closed.Load() }
func (w *fakeWindow) RequestClose() { w.closed.Store(true) }
func (w *fakeWindow) Close() error {
	w.closed.Store(true)
	return nil
}
func (w *fakeWindow) Width() int { return 800 }
func (w *fakeWindow) Height() int { return 600 }

func (w *fakeWindow) ProcessMessages() {
	for w.IsRunning() {
		w.mu.Lock()
		cb := w.onUpdate
		w.mu.Unlock()
		if cb != nil {
			cb()
		}
		time.Sleep(time.Millisecond)
	}
}

func (w *fakeWindow) resize(width, height int) {
	w.mu.Lock()
	cb := w.onResize
	w.mu.Unlock()
	cb(width, height)
}

type fakeRenderer struct {
	mu      sync.Mutex
	resizes [][2]int
	frames  atomic.Int64
	fail    bool
	panics  bool
}

func (r *fakeRenderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resizes = append(r.resizes, [2]int{width, height})
}

func (r *fakeRenderer) Render(renderer.Frame) error {
	r.frames.Add(1)
	if r.panics {
		panic("device lost")
	}
	if r.fail {
		return errors.New("surface lost")
	}
	return nil
}

func (r *fakeRenderer) resizeCalls() [][2]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][2]int(nil), r.resizes...)
}

func (r *fakeRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *fakeRenderer) Release() {}

func TestRunWithoutWindow(t *testing.T) {
	assert.ErrorIs(t, NewEngine().Run(context.Background()), ErrNoWindow)
}

func TestResizeReconfiguresRendererOnceAndUpdatesAspect(t *testing.T) {
	w := &fakeWindow{}
	r := &fakeRenderer{}
	s := scene.NewScene()
	cam, err := camera.NewArcRotateCamera("cam", 0, 1, 3, mgl32.Vec3{})
	require.NoError(t, err)
	s.SetCamera(cam)

	NewEngine(WithWindow(w), WithRenderer(r), WithScene(s))
	w.resize(1000, 500)
	w.resize(0, 0)

	assert.Equal(t, [][2]int{{1000, 500}}, r.resizes)
	assert.InDelta(t, 2, cam.Aspect(), 1e-6)
}

func TestResizeWhileRunningReconfiguresOncePerEvent(t *testing.T) {
	w := &fakeWindow{}
	r := &fakeRenderer{}
	s := scene.NewScene()
	cam, err := camera.NewArcRotateCamera("cam", 0, 1, 3, mgl32.Vec3{})
	require.NoError(t, err)
	s.SetCamera(cam)
	e := NewEngine(WithWindow(w), WithRenderer(r), WithScene(s))

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()
	require.Eventually(t, func() bool { return r.frames.Load() >= 2 }, time.Second, time.Millisecond)

	sizes := [][2]int{{1024, 768}, {1280, 720}, {640, 640}, {1920, 480}}
	for _, size := range sizes {
		w.resize(size[0], size[1])
		// Let at least one more frame render between events.
		seen := r.frames.Load()
		require.Eventually(t, func() bool { return r.frames.Load() > seen }, time.Second, time.Millisecond)
	}

	assert.Equal(t, sizes, r.resizeCalls(), "one reconfigure per resize event, none per frame")
	assert.InDelta(t, 4, cam.Aspect(), 1e-6)

	e.Quit()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	assert.Len(t, r.resizeCalls(), len(sizes))
}

func TestRunRendersUntilContextCancelled(t *testing.T) {
	w := &fakeWindow{}
	r := &fakeRenderer{fail: true}
	e := NewEngine(WithWindow(w), WithRenderer(r), WithScene(scene.NewScene()), WithRenderFrameLimit(1000))

	var callbacks atomic.Int64
	e.SetRenderCallback(func(float32) { callbacks.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	require.Eventually(t, func() bool { return r.frames.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop")
	}
	assert.False(t, w.IsRunning())
	assert.Positive(t, callbacks.Load())
	<-e.Done()
}

func TestQuitStopsRun(t *testing.T) {
	w := &fakeWindow{}
	e := NewEngine(WithWindow(w))

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()
	e.Quit()
	e.Quit()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop")
	}
}

func TestRenderPanicQuitsEngine(t *testing.T) {
	w := &fakeWindow{}
	r := &fakeRenderer{panics: true}
	e := NewEngine(WithWindow(w), WithRenderer(r), WithScene(scene.NewScene()))

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop after render panic")
	}
	assert.EqualValues(t, 1, r.frames.Load())
}

func TestInactiveSceneIsNotRendered(t *testing.T) {
	w := &fakeWindow{}
	r := &fakeRenderer{}
	e := NewEngine(WithWindow(w), WithRenderer(r), WithScene(scene.NewScene(scene.WithActive(false))), WithRenderFrameLimit(500))

	go func() {
		time.Sleep(20 * time.Millisecond)
		e.Quit()
	}()
	require.NoError(t, e.Run(context.Background()))
	assert.Zero(t, r.frames.Load())
}

func TestFrameDuration(t *testing.T) {
	assert.Zero(t, frameDuration(0))
	assert.Zero(t, frameDuration(-5))
	assert.Equal(t, 16666666*time.Nanosecond, frameDuration(60))
}

package window

import (
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
//
// Callbacks may be set from any goroutine. Title changes and close requests made
// off the window goroutine are applied on the next message loop iteration.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called once per framebuffer resize.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetPointerDragCallback sets the callback for pointer movement while a mouse button is held.
	//
	// Parameters:
	//   - callback: function receiving the held button and the movement in pixels
	SetPointerDragCallback(callback func(button int, dx, dy float32))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Title returns the current window title.
	Title() string

	// SetTitle changes the window title.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop. Safe to call from any goroutine.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	mu *sync.Mutex

	// title is the window title displayed in the title bar.
	title string

	// titleDirty is set when title changed and has not been applied to the platform window.
	titleDirty bool

	// closeRequested is set by RequestClose and consumed by the message loop.
	closeRequested bool

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height are the current framebuffer size in pixels.
	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	pointer pointerTracker

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float32)
	onPointerDrag func(button int, dx, dy float32)
	onKeyDown     func(keyCode uint32)
	onKeyUp       func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		mu:        &sync.Mutex{},
		title:     "oxy-vr",
		maxWidth:  0,
		maxHeight: 0,
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onScroll = callback
}

func (w *engineWindow) SetPointerDragCallback(callback func(button int, dx, dy float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onPointerDrag = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyUp = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *engineWindow) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.title == title {
		return
	}
	w.title = title
	w.titleDirty = true
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeRequested = true
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		w.mu.Lock()
		closeRequested := w.closeRequested
		title, titleDirty := w.title, w.titleDirty
		w.titleDirty = false
		onUpdate := w.onUpdate
		w.mu.Unlock()

		if closeRequested {
			platformRequestClose(w)
			break
		}
		if titleDirty {
			platformSetTitle(w, title)
		}

		if succ := platformProcessMessages(w); !succ {
			break
		}

		if onUpdate != nil {
			onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// handleResize records the new framebuffer size and fires the resize callback once.
func (w *engineWindow) handleResize(width, height int) {
	w.mu.Lock()
	changed := w.width != width || w.height != height
	w.width = width
	w.height = height
	cb := w.onResize
	w.mu.Unlock()

	if changed && cb != nil {
		cb(width, height)
	}
}

// handleScroll forwards a vertical wheel delta.
func (w *engineWindow) handleScroll(delta float32) {
	w.mu.Lock()
	cb := w.onScroll
	w.mu.Unlock()
	if cb != nil {
		cb(delta)
	}
}

// handleKey forwards a key press or release.
func (w *engineWindow) handleKey(keyCode uint32, down bool) {
	w.mu.Lock()
	cb := w.onKeyUp
	if down {
		cb = w.onKeyDown
	}
	w.mu.Unlock()
	if cb != nil {
		cb(keyCode)
	}
}

// handleButton records a mouse button transition at the given cursor position.
func (w *engineWindow) handleButton(button int, pressed bool, x, y float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pointer.button(button, pressed, x, y)
}

// handleCursor converts cursor movement into drag events for the held button.
func (w *engineWindow) handleCursor(x, y float64) {
	w.mu.Lock()
	button, dx, dy, dragging := w.pointer.move(x, y)
	cb := w.onPointerDrag
	w.mu.Unlock()

	if dragging && cb != nil {
		cb(button, dx, dy)
	}
}

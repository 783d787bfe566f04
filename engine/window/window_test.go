package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointerTrackerDrag(t *testing.T) {
	var p pointerTracker

	_, _, _, dragging := p.move(10, 10)
	assert.False(t, dragging, "first sample has no delta")

	_, _, _, dragging = p.move(20, 15)
	assert.False(t, dragging, "no button held")

	p.button(0, true, 20, 15)
	button, dx, dy, dragging := p.move(25, 5)
	require.True(t, dragging)
	assert.Equal(t, 0, button)
	assert.Equal(t, float32(5), dx)
	assert.Equal(t, float32(-10), dy)

	p.button(1, true, 25, 5)
	button, _, _, _ = p.move(26, 5)
	assert.Equal(t, 0, button, "lowest held button owns the drag")

	p.button(0, false, 26, 5)
	button, _, _, dragging = p.move(27, 5)
	assert.True(t, dragging)
	assert.Equal(t, 1, button)

	p.button(1, false, 27, 5)
	_, _, _, dragging = p.move(30, 5)
	assert.False(t, dragging)

	p.button(42, true, 0, 0)
	_, _, _, dragging = p.move(31, 5)
	assert.False(t, dragging, "out of range buttons are ignored")
}

func TestResizeFiresOncePerChange(t *testing.T) {
	w := newEngineWindow(WithSize(800, 600))
	var calls [][2]int
	w.SetResizeCallback(func(width, height int) {
		calls = append(calls, [2]int{width, height})
	})

	w.handleResize(1024, 768)
	w.handleResize(1024, 768)
	w.handleResize(640, 480)

	assert.Equal(t, [][2]int{{1024, 768}, {640, 480}}, calls)
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())
}

func TestInputCallbacks(t *testing.T) {
	w := newEngineWindow()

	var scroll float32
	var down, up uint32
	var drag [3]float32
	w.SetScrollCallback(func(delta float32) { scroll = delta })
	w.SetKeyDownCallback(func(k uint32) { down = k })
	w.SetKeyUpCallback(func(k uint32) { up = k })
	w.SetPointerDragCallback(func(button int, dx, dy float32) {
		drag = [3]float32{float32(button), dx, dy}
	})

	w.handleScroll(-1)
	w.handleKey(262, true)
	w.handleKey(263, false)
	w.handleButton(2, true, 0, 0)
	w.handleCursor(3, 4)

	assert.Equal(t, float32(-1), scroll)
	assert.Equal(t, uint32(262), down)
	assert.Equal(t, uint32(263), up)
	assert.Equal(t, [3]float32{2, 3, 4}, drag)

	w.SetScrollCallback(nil)
	w.handleScroll(5)
	assert.Equal(t, float32(-1), scroll)
}

func TestTitleAndCloseRequests(t *testing.T) {
	w := newEngineWindow(WithTitle("first"))
	assert.Equal(t, "first", w.Title())

	w.SetTitle("first")
	assert.False(t, w.titleDirty)
	w.SetTitle("second")
	assert.True(t, w.titleDirty)
	assert.Equal(t, "second", w.Title())

	w.RequestClose()
	assert.True(t, w.closeRequested)
	assert.False(t, w.IsRunning(), "no platform window")
	assert.Error(t, w.Close())
	assert.Nil(t, w.SurfaceDescriptor())
}

func TestSizeOptions(t *testing.T) {
	w := newEngineWindow()
	minW, minH, maxW, maxH := w.sizeLimits()
	assert.Equal(t, [4]int{320, 200, -1, -1}, [4]int{minW, minH, maxW, maxH})

	w = newEngineWindow(
		WithTitle("hangar"),
		WithSize(1024, 0),
		WithMinSize(640, 0),
		WithMaxSize(1920, 1080),
	)
	assert.Equal(t, "hangar", w.Title())
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 720, w.Height(), "non-positive height keeps the default")

	minW, minH, maxW, maxH = w.sizeLimits()
	assert.Equal(t, [4]int{640, -1, 1920, 1080}, [4]int{minW, minH, maxW, maxH})
}

package camera

import "github.com/Carmen-Shannon/oxy-vr/common"

// InputSource is the subset of window input a camera needs to be controlled.
// engine/window.Window satisfies it.
type InputSource interface {
	// SetScrollCallback sets the callback for mouse scroll wheel events.
	SetScrollCallback(callback func(delta float32))

	// SetPointerDragCallback sets the callback for pointer movement while a button is held.
	SetPointerDragCallback(callback func(button int, dx, dy float32))

	// SetKeyDownCallback sets the callback for key press events.
	SetKeyDownCallback(callback func(keyCode uint32))
}

func (c *arcRotateCamera) AttachControl(src InputSource) {
	if src == nil {
		return
	}
	c.DetachControl()

	src.SetScrollCallback(c.Zoom)
	src.SetPointerDragCallback(func(button int, dx, dy float32) {
		switch button {
		case common.MouseButtonLeft:
			c.Orbit(dx, dy)
		case common.MouseButtonRight, common.MouseButtonMiddle:
			c.Pan(dx, dy)
		}
	})
	src.SetKeyDownCallback(func(keyCode uint32) {
		c.mu.Lock()
		step := c.keyboardStep
		c.mu.Unlock()

		switch keyCode {
		case common.KeyLeft:
			c.rotate(-step, 0)
		case common.KeyRight:
			c.rotate(step, 0)
		case common.KeyUp:
			c.rotate(0, -step)
		case common.KeyDown:
			c.rotate(0, step)
		}
	})

	c.mu.Lock()
	c.input = src
	c.mu.Unlock()
}

func (c *arcRotateCamera) DetachControl() {
	c.mu.Lock()
	src := c.input
	c.input = nil
	c.mu.Unlock()

	if src == nil {
		return
	}
	src.SetScrollCallback(nil)
	src.SetPointerDragCallback(nil)
	src.SetKeyDownCallback(nil)
}

func (c *arcRotateCamera) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input != nil
}

// rotate adds the given angles directly, in radians.
func (c *arcRotateCamera) rotate(dAlpha, dBeta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alpha += dAlpha
	c.beta += dBeta
	c.constrain()
}

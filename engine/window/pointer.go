package window

// pointerTracker turns raw button and cursor events into drag deltas.
// The lowest-numbered held button owns the drag.
type pointerTracker struct {
	held    [8]bool
	lastX   float64
	lastY   float64
	hasLast bool
}

func (p *pointerTracker) button(button int, pressed bool, x, y float64) {
	if button < 0 || button >= len(p.held) {
		return
	}
	p.held[button] = pressed
	p.lastX, p.lastY = x, y
	p.hasLast = true
}

// move records the cursor position and reports the drag delta if a button is held.
func (p *pointerTracker) move(x, y float64) (button int, dx, dy float32, dragging bool) {
	if p.hasLast {
		dx = float32(x - p.lastX)
		dy = float32(y - p.lastY)
	}
	p.lastX, p.lastY = x, y
	wasTracked := p.hasLast
	p.hasLast = true

	if !wasTracked {
		return 0, 0, 0, false
	}
	for b, held := range p.held {
		if held {
			return b, dx, dy, true
		}
	}
	return 0, 0, 0, false
}

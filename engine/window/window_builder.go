package window

// WindowBuilderOption configures the window before the platform window is created.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the base title. The application appends overlay labels to it at runtime.
//
// Parameters:
//   - title: the title bar text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the framebuffer size the window opens with. Non-positive values keep the default.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
		if height > 0 {
			w.height = height
		}
	}
}

// WithMinSize stops the user from shrinking the window below width x height.
// Zero on an axis removes that limit.
//
// Parameters:
//   - width: smallest width in pixels
//   - height: smallest height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = max(width, 0)
		w.minHeight = max(height, 0)
	}
}

// WithMaxSize caps how far the window can be enlarged. Zero on an axis leaves it unbounded.
//
// Parameters:
//   - width: largest width in pixels
//   - height: largest height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = max(width, 0)
		w.maxHeight = max(height, 0)
	}
}

// sizeLimits returns the limits handed to the platform window. Unbounded axes are reported as -1.
func (w *engineWindow) sizeLimits() (minW, minH, maxW, maxH int) {
	minW, minH, maxW, maxH = w.minWidth, w.minHeight, -1, -1
	if minW == 0 {
		minW = -1
	}
	if minH == 0 {
		minH = -1
	}
	if w.maxWidth > 0 {
		maxW = w.maxWidth
	}
	if w.maxHeight > 0 {
		maxH = w.maxHeight
	}
	return minW, minH, maxW, maxH
}

package ui

// OverlayBuilderOption is a functional option for configuring an Overlay via NewOverlay.
type OverlayBuilderOption func(*overlay)

// WithElement registers an element at construction time.
//
// Parameters:
//   - id: the element id
//   - label: the element label
//   - visible: the initial visibility
//
// Returns:
//   - OverlayBuilderOption: option function to apply
func WithElement(id, label string, visible bool) OverlayBuilderOption {
	return func(o *overlay) {
		o.Register(id, label, visible)
	}
}

package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's identifier.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithClearColor sets the RGBA colour the frame is cleared to.
//
// Parameters:
//   - r, g, b, a: colour components in [0, 1]
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithClearColor(r, g, b, a float64) SceneBuilderOption {
	return func(s *scene) {
		s.clearColor = [4]float64{r, g, b, a}
	}
}

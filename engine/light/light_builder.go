package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a light instance during construction.
type LightBuilderOption func(*directionalLight)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a light
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *directionalLight) {
		l.position = mgl32.Vec3{x, y, z}
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a light
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *directionalLight) {
		l.color = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a light
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *directionalLight) {
		l.intensity = intensity
	}
}

// WithShadowEnabled is an option builder that sets whether the light casts shadows.
//
// Parameters:
//   - enabled: true to enable shadow casting
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow option to a light
func WithShadowEnabled(enabled bool) LightBuilderOption {
	return func(l *directionalLight) {
		l.shadowEnabled = enabled
	}
}

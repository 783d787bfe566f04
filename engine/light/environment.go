package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/engine/material"
)

// EnvironmentLighting is image-based ambient lighting derived from a
// prefiltered environment texture.
type EnvironmentLighting struct {
	mu        sync.RWMutex
	texture   *material.CubeTexture
	intensity float32
}

// NewEnvironmentLighting creates image-based lighting from texture at the given intensity.
// Negative intensities are clamped to zero.
func NewEnvironmentLighting(texture *material.CubeTexture, intensity float32) *EnvironmentLighting {
	return &EnvironmentLighting{texture: texture, intensity: max(intensity, 0)}
}

// Texture returns the environment texture.
func (e *EnvironmentLighting) Texture() *material.CubeTexture {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.texture
}

// Intensity returns the ambient contribution multiplier.
func (e *EnvironmentLighting) Intensity() float32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.intensity
}

// SetIntensity changes the ambient contribution multiplier.
func (e *EnvironmentLighting) SetIntensity(intensity float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.intensity = max(intensity, 0)
}

package light

import (
	"errors"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrZeroDirection is returned when a directional light is created or pointed with a zero vector.
var ErrZeroDirection = errors.New("light direction must not be zero")

// directionalLight is the implementation of the DirectionalLight interface.
type directionalLight struct {
	mu *sync.RWMutex

	name          string
	position      mgl32.Vec3
	direction     mgl32.Vec3
	color         mgl32.Vec3
	intensity     float32
	enabled       bool
	shadowEnabled bool
}

// DirectionalLight is a light with a direction but no attenuation, used for the
// scene's key light. The position only matters as the eye point for shadow
// computations.
type DirectionalLight interface {
	// Name returns the light identifier.
	Name() string

	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// Direction returns the normalized direction the light travels in.
	//
	// Returns:
	//   - mgl32.Vec3: normalized direction
	Direction() mgl32.Vec3

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - d: direction (will be normalized)
	//
	// Returns:
	//   - error: ErrZeroDirection if d has zero length
	SetDirection(d mgl32.Vec3) error

	// Color returns the RGB color of the light.
	Color() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	Intensity() float32

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// Enabled returns whether this light contributes to rendering.
	Enabled() bool

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// ShadowEnabled returns whether this light casts shadows.
	ShadowEnabled() bool

	// SetShadowEnabled sets whether the light casts shadows.
	//
	// Parameters:
	//   - enabled: true to enable shadow casting
	SetShadowEnabled(enabled bool)
}

var _ DirectionalLight = &directionalLight{}

// NewDirectionalLight creates a new enabled, white DirectionalLight with unit
// intensity pointing along direction, then applies the options.
//
// Parameters:
//   - name: the light identifier
//   - direction: the direction the light travels in
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - DirectionalLight: a new light instance
//   - error: ErrZeroDirection if direction has zero length
func NewDirectionalLight(name string, direction mgl32.Vec3, opts ...LightBuilderOption) (DirectionalLight, error) {
	if direction.Len() == 0 {
		return nil, ErrZeroDirection
	}
	l := &directionalLight{
		mu:        &sync.RWMutex{},
		name:      name,
		direction: direction.Normalize(),
		color:     mgl32.Vec3{1, 1, 1},
		intensity: 1,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *directionalLight) Name() string {
	return l.name
}

func (l *directionalLight) Position() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.position
}

func (l *directionalLight) SetPosition(p mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = p
}

func (l *directionalLight) Direction() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.direction
}

func (l *directionalLight) SetDirection(d mgl32.Vec3) error {
	if d.Len() == 0 {
		return ErrZeroDirection
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = d.Normalize()
	return nil
}

func (l *directionalLight) Color() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.color
}

func (l *directionalLight) Intensity() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.intensity
}

func (l *directionalLight) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *directionalLight) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

func (l *directionalLight) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

func (l *directionalLight) ShadowEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.shadowEnabled
}

func (l *directionalLight) SetShadowEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shadowEnabled = enabled
}

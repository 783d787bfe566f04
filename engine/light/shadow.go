package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultShadowDarkness is the default opacity of projected shadows,
// where 0 is invisible and 1 is fully black.
const DefaultShadowDarkness float32 = 0.5

// DefaultShadowBias lifts projected shadows above the receiving surface
// to avoid depth fighting with the receiver.
const DefaultShadowBias float32 = 0.002

// DefaultShadowMapSize is the nominal shadow map resolution in texels.
const DefaultShadowMapSize = 1024

// minShadowSlope is the smallest |direction.y| that still produces a finite
// projection onto a horizontal receiver.
const minShadowSlope float32 = 1e-4

// shadowGenerator is the implementation of the ShadowGenerator interface.
type shadowGenerator struct {
	mu *sync.RWMutex

	light    DirectionalLight
	darkness float32
	bias     float32
	mapSize  int

	casters []mesh.Mesh
	known   map[uint64]struct{}
}

// ShadowGenerator keeps the set of meshes that cast shadows from one directional
// light onto horizontal receivers. Membership only grows.
type ShadowGenerator interface {
	// Light returns the light the generator projects from.
	Light() DirectionalLight

	// Darkness returns the shadow opacity in [0, 1].
	Darkness() float32

	// MapSize returns the nominal shadow map resolution.
	MapSize() int

	// AddShadowCaster registers m as a caster. When includeDescendants is true every
	// mesh below m in the hierarchy is registered too. Registering a mesh twice is a no-op.
	//
	// Parameters:
	//   - m: the caster mesh
	//   - includeDescendants: also register m's descendants
	AddShadowCaster(m mesh.Mesh, includeDescendants bool)

	// IsCaster reports whether m is registered.
	//
	// Parameters:
	//   - m: the mesh to look up
	//
	// Returns:
	//   - bool: true if m casts shadows
	IsCaster(m mesh.Mesh) bool

	// Casters returns a copy of the registered casters in registration order.
	//
	// Returns:
	//   - []mesh.Mesh: the casters
	Casters() []mesh.Mesh

	// PlanarShadowMatrix returns the matrix that flattens world-space geometry onto the
	// horizontal plane y = receiverY along the light direction, lifted by the shadow bias.
	// ok is false when the light is disabled, not shadow-casting, or (nearly) horizontal.
	//
	// Parameters:
	//   - receiverY: world height of the receiving plane
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	//   - bool: whether a projection exists
	PlanarShadowMatrix(receiverY float32) (mgl32.Mat4, bool)
}

var _ ShadowGenerator = &shadowGenerator{}

// NewShadowGenerator creates a ShadowGenerator bound to light.
//
// Parameters:
//   - l: the shadow-casting light
//   - opts: variadic list of ShadowGeneratorOption functions
//
// Returns:
//   - ShadowGenerator: the generator
func NewShadowGenerator(l DirectionalLight, opts ...ShadowGeneratorOption) ShadowGenerator {
	g := &shadowGenerator{
		mu:       &sync.RWMutex{},
		light:    l,
		darkness: DefaultShadowDarkness,
		bias:     DefaultShadowBias,
		mapSize:  DefaultShadowMapSize,
		known:    make(map[uint64]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ShadowGeneratorOption is a function that configures a shadow generator during construction.
type ShadowGeneratorOption func(*shadowGenerator)

// WithDarkness sets the shadow opacity, clamped to [0, 1].
//
// Parameters:
//   - darkness: shadow opacity
//
// Returns:
//   - ShadowGeneratorOption: option function to apply
func WithDarkness(darkness float32) ShadowGeneratorOption {
	return func(g *shadowGenerator) {
		g.darkness = min(max(darkness, 0), 1)
	}
}

// WithBias sets the height shadows are lifted above their receiver.
//
// Parameters:
//   - bias: lift in world units
//
// Returns:
//   - ShadowGeneratorOption: option function to apply
func WithBias(bias float32) ShadowGeneratorOption {
	return func(g *shadowGenerator) {
		g.bias = bias
	}
}

// WithMapSize sets the nominal shadow map resolution. Non-positive sizes are ignored.
//
// Parameters:
//   - size: resolution in texels
//
// Returns:
//   - ShadowGeneratorOption: option function to apply
func WithMapSize(size int) ShadowGeneratorOption {
	return func(g *shadowGenerator) {
		if size > 0 {
			g.mapSize = size
		}
	}
}

func (g *shadowGenerator) MapSize() int {
	return g.mapSize
}

func (g *shadowGenerator) Light() DirectionalLight {
	return g.light
}

func (g *shadowGenerator) Darkness() float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.darkness
}

func (g *shadowGenerator) AddShadowCaster(m mesh.Mesh, includeDescendants bool) {
	if m == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addLocked(m)
	if includeDescendants {
		for _, d := range m.Descendants() {
			g.addLocked(d)
		}
	}
}

func (g *shadowGenerator) IsCaster(m mesh.Mesh) bool {
	if m == nil {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.known[m.ID()]
	return ok
}

func (g *shadowGenerator) Casters() []mesh.Mesh {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]mesh.Mesh, len(g.casters))
	copy(out, g.casters)
	return out
}

func (g *shadowGenerator) PlanarShadowMatrix(receiverY float32) (mgl32.Mat4, bool) {
	if g.light == nil || !g.light.Enabled() || !g.light.ShadowEnabled() {
		return mgl32.Mat4{}, false
	}
	d := g.light.Direction()
	if d[1] > -minShadowSlope && d[1] < minShadowSlope {
		return mgl32.Mat4{}, false
	}

	g.mu.RLock()
	h := receiverY + g.bias
	g.mu.RUnlock()

	// p' = p - d * (p.y - h) / d.y
	kx := d[0] / d[1]
	kz := d[2] / d[1]
	return mgl32.Mat4{
		1, 0, 0, 0,
		-kx, 0, -kz, 0,
		0, 0, 1, 0,
		kx * h, h, kz * h, 1,
	}, true
}

// addLocked registers m if it is not already known. Caller must hold the write lock.
func (g *shadowGenerator) addLocked(m mesh.Mesh) {
	if _, ok := g.known[m.ID()]; ok {
		return
	}
	g.known[m.ID()] = struct{}{}
	g.casters = append(g.casters, m)
}

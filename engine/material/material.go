package material

import "sync"

// pbrMaterial is the implementation of the Material interface.
type pbrMaterial struct {
	mu *sync.RWMutex

	name           string
	albedoColor    [4]float32
	metallic       float32
	roughness      float32
	albedoTexture  *Texture
	opacityTexture *Texture
}

// Material defines the interface for a physically based surface description.
//
// Materials are declarative: they carry colours, factors and texture references
// and are read by the renderer when building draw calls. Safe for concurrent use.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// AlbedoColor retrieves the base RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	AlbedoColor() [4]float32

	// SetAlbedoColor sets the base RGBA color of the material.
	//
	// Parameters:
	//   - color: the base color as RGBA values
	SetAlbedoColor(color [4]float32)

	// Metallic retrieves the metallic factor of the material.
	// A value of 0.0 represents a dielectric surface, 1.0 represents a fully metallic surface.
	//
	// Returns:
	//   - float32: the metallic factor
	Metallic() float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// SetRoughness sets the roughness factor, clamped to [0, 1].
	//
	// Parameters:
	//   - roughness: the roughness factor
	SetRoughness(roughness float32)

	// AlbedoTexture retrieves the albedo texture, or nil if none is set.
	//
	// Returns:
	//   - *Texture: the albedo texture, or nil
	AlbedoTexture() *Texture

	// SetAlbedoTexture sets the albedo texture.
	//
	// Parameters:
	//   - t: the texture, or nil to clear it
	SetAlbedoTexture(t *Texture)

	// OpacityTexture retrieves the opacity texture, or nil if none is set.
	//
	// Returns:
	//   - *Texture: the opacity texture, or nil
	OpacityTexture() *Texture

	// SetOpacityTexture sets the opacity texture.
	//
	// Parameters:
	//   - t: the texture, or nil to clear it
	SetOpacityTexture(t *Texture)
}

var _ Material = &pbrMaterial{}

// NewPBRMaterial creates a new Material with a white albedo, zero metallic and
// full roughness, then applies the given options.
//
// Parameters:
//   - name: the identifier for the material
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the newly created material
func NewPBRMaterial(name string, options ...MaterialBuilderOption) Material {
	m := &pbrMaterial{
		mu:          &sync.RWMutex{},
		name:        name,
		albedoColor: [4]float32{1, 1, 1, 1},
		metallic:    0,
		roughness:   1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *pbrMaterial) Name() string {
	return m.name
}

func (m *pbrMaterial) AlbedoColor() [4]float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.albedoColor
}

func (m *pbrMaterial) SetAlbedoColor(color [4]float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.albedoColor = color
}

func (m *pbrMaterial) Metallic() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metallic
}

func (m *pbrMaterial) Roughness() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roughness
}

func (m *pbrMaterial) SetRoughness(roughness float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roughness = clamp01(roughness)
}

func (m *pbrMaterial) AlbedoTexture() *Texture {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.albedoTexture
}

func (m *pbrMaterial) SetAlbedoTexture(t *Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.albedoTexture = t
}

func (m *pbrMaterial) OpacityTexture() *Texture {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opacityTexture
}

func (m *pbrMaterial) SetOpacityTexture(t *Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opacityTexture = t
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

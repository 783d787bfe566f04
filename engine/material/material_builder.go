package material

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*pbrMaterial)

// WithAlbedoColor is an option builder that sets the base RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the albedo color option to a material
func WithAlbedoColor(color [4]float32) MaterialBuilderOption {
	return func(m *pbrMaterial) {
		m.albedoColor = color
	}
}

// WithMetallic is an option builder that sets the metallic factor of the material.
//
// Parameters:
//   - metallic: the metallic factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic option to a material
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(m *pbrMaterial) {
		m.metallic = clamp01(metallic)
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *pbrMaterial) {
		m.roughness = clamp01(roughness)
	}
}

// WithAlbedoTexture is an option builder that sets the albedo texture of the material.
//
// Parameters:
//   - t: the albedo texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the albedo texture option to a material
func WithAlbedoTexture(t *Texture) MaterialBuilderOption {
	return func(m *pbrMaterial) {
		m.albedoTexture = t
	}
}

// WithOpacityTexture is an option builder that sets the opacity texture of the material.
//
// Parameters:
//   - t: the opacity texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity texture option to a material
func WithOpacityTexture(t *Texture) MaterialBuilderOption {
	return func(m *pbrMaterial) {
		m.opacityTexture = t
	}
}

package mesh

import (
	"github.com/Carmen-Shannon/oxy-vr/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshBuilderOption is a functional option for configuring a Mesh.
// Use the With* functions to create options.
type MeshBuilderOption func(m *meshImpl)

// WithPosition sets the initial local translation.
//
// Parameters:
//   - x, y, z: translation components
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithPosition(x, y, z float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation sets the initial local rotation.
//
// Parameters:
//   - q: rotation quaternion
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithRotation(q mgl32.Quat) MeshBuilderOption {
	return func(m *meshImpl) {
		m.rotation = q
	}
}

// WithScaling sets the initial local scale.
//
// Parameters:
//   - x, y, z: per-axis scale
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithScaling(x, y, z float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.scaling = mgl32.Vec3{x, y, z}
	}
}

// WithGeometry sets the triangle list carried by the mesh.
//
// Parameters:
//   - vertices: interleaved vertex data
//   - indices: triangle list indices into vertices
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithGeometry(vertices []Vertex, indices []uint32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.vertices = vertices
		m.indices = indices
	}
}

// WithMaterial sets the surface material.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithMaterial(mat material.Material) MeshBuilderOption {
	return func(m *meshImpl) {
		m.material = mat
	}
}

// WithReceiveShadows sets whether shadows are projected onto the mesh.
//
// Parameters:
//   - receive: true to receive shadows
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithReceiveShadows(receive bool) MeshBuilderOption {
	return func(m *meshImpl) {
		m.receiveShadows = receive
	}
}

// WithAlphaIndex sets the draw-order key.
//
// Parameters:
//   - index: lower values are drawn first
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithAlphaIndex(index int) MeshBuilderOption {
	return func(m *meshImpl) {
		m.alphaIndex = index
	}
}

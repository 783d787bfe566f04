package renderer

import (
	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/material"
	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// uniformBlockSize is the byte size of the per-draw uniform block in shader.wgsl.
const uniformBlockSize = 192

// Frame is an immutable snapshot of everything needed to draw one frame.
type Frame struct {
	// ClearColor is the RGBA colour the colour target is cleared to.
	ClearColor [4]float64

	// ViewProjection transforms world space to clip space.
	ViewProjection mgl32.Mat4

	// LightDirection is the direction the key light travels, in world space.
	LightDirection mgl32.Vec3

	// LightIntensity scales the diffuse term of the key light.
	LightIntensity float32

	// Ambient is the constant lighting term contributed by the environment.
	Ambient float32

	// Draws are issued in slice order.
	Draws []Draw
}

// Draw is a single indexed draw of one mesh.
type Draw struct {
	// Key identifies the GPU buffers cached for this geometry across frames.
	Key string

	Vertices []mesh.Vertex
	Indices  []uint32

	// Model is the mesh world matrix. Shadow draws carry the projected matrix.
	Model mgl32.Mat4

	// Color is the straight-alpha RGBA base colour.
	Color mgl32.Vec4

	// Unlit draws output Color unchanged. Planar shadows are unlit.
	Unlit bool

	// AlbedoTexture tints Color and is tiled by its UV scale. Nil samples white.
	AlbedoTexture *material.Texture

	// OpacityTexture multiplies the alpha by its alpha channel, untiled. Nil samples white.
	OpacityTexture *material.Texture
}

// encodeUniforms packs the uniform block for d in the layout declared by shader.wgsl.
func encodeUniforms(f Frame, d Draw) []byte {
	lit := float32(1)
	if d.Unlit {
		lit = 0
	}
	data := make([]float32, 0, uniformBlockSize/4)
	data = append(data, f.ViewProjection[:]...)
	data = append(data, d.Model[:]...)
	data = append(data, d.Color[:]...)
	data = append(data, f.LightDirection.X(), f.LightDirection.Y(), f.LightDirection.Z(), f.LightIntensity)
	data = append(data, f.Ambient, lit, 0, 0)
	uScale, vScale := float32(1), float32(1)
	if d.AlbedoTexture != nil {
		uScale, vScale = d.AlbedoTexture.UScale, d.AlbedoTexture.VScale
	}
	data = append(data, uScale, vScale, 0, 0)
	return common.SliceToBytes(data)
}

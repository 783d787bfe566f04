package scene

import (
	"strconv"
	"testing"

	"github.com/Carmen-Shannon/oxy-vr/engine/camera"
	"github.com/Carmen-Shannon/oxy-vr/engine/light"
	"github.com/Carmen-Shannon/oxy-vr/engine/material"
	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle(name string, opts ...mesh.MeshBuilderOption) mesh.Mesh {
	geometry := mesh.WithGeometry(
		[]mesh.Vertex{
			{Position: [3]float32{0, 1, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{1, 1, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{0, 2, 0}, Normal: [3]float32{0, 0, 1}},
		},
		[]uint32{0, 1, 2},
	)
	return mesh.NewMesh(name, append([]mesh.MeshBuilderOption{geometry}, opts...)...)
}

func populatedScene(t *testing.T) (Scene, mesh.Mesh, mesh.Mesh) {
	t.Helper()
	s := NewScene()

	ground, err := mesh.NewGround("ground", 20, 20, 1, mesh.WithAlphaIndex(-1), mesh.WithReceiveShadows(true))
	require.NoError(t, err)
	s.SetGround(ground)

	key, err := light.NewDirectionalLight("KeyLight", mgl32.Vec3{-1, -2, -1}, light.WithIntensity(0.4), light.WithShadowEnabled(true))
	require.NoError(t, err)
	s.SetKeyLight(key)
	s.SetEnvironment(light.NewEnvironmentLighting(nil, 0.8))

	cam, err := camera.NewArcRotateCamera("Camera", 0.6, 0.7, 3, mgl32.Vec3{0, 0.6, -0.2})
	require.NoError(t, err)
	s.SetCamera(cam)

	hero := triangle("hero", mesh.WithMaterial(material.NewPBRMaterial("red", material.WithAlbedoColor([4]float32{1, 0, 0, 1}))))
	s.AddMesh(hero)
	return s, ground, hero
}

func TestOptionalAccessorsStartEmpty(t *testing.T) {
	s := NewScene(WithName("demo"))
	assert.Equal(t, "demo", s.Name())
	assert.True(t, s.Active())
	assert.Equal(t, [4]float64{0, 0, 0, 1}, s.ClearColor())

	_, ok := s.Ground()
	assert.False(t, ok)
	_, ok = s.Camera()
	assert.False(t, ok)
	_, ok = s.ShadowGenerator()
	assert.False(t, ok)
	_, ok = s.Hero()
	assert.False(t, ok)
	_, ok = s.XR()
	assert.False(t, ok)
}

func TestBuildFrameWithoutCameraOnlyClears(t *testing.T) {
	s := NewScene(WithClearColor(0.1, 0.2, 0.3, 1))
	s.AddMesh(triangle("orphan"))

	f := s.BuildFrame()
	assert.Equal(t, [4]float64{0.1, 0.2, 0.3, 1}, f.ClearColor)
	assert.Empty(t, f.Draws)
}

func TestBuildFrameOrdersByAlphaIndex(t *testing.T) {
	s, ground, hero := populatedScene(t)

	f := s.BuildFrame()
	require.Len(t, f.Draws, 2)
	assert.Equal(t, "mesh-"+itoa(ground.ID()), f.Draws[0].Key)
	assert.Equal(t, "mesh-"+itoa(hero.ID()), f.Draws[1].Key)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, f.Draws[1].Color)
	assert.InDelta(t, 0.8, f.Ambient, 1e-6)
	assert.InDelta(t, 0.4, f.LightIntensity, 1e-6)
}

func TestBuildFrameCarriesMaterialTextures(t *testing.T) {
	s, ground, _ := populatedScene(t)
	albedo, err := material.NewTexture("grid.png", material.WithUVScale(12, 12))
	require.NoError(t, err)
	opacity, err := material.NewTexture("fade.png")
	require.NoError(t, err)
	ground.SetMaterial(material.NewPBRMaterial("groundMaterial",
		material.WithAlbedoTexture(albedo),
		material.WithOpacityTexture(opacity),
	))

	f := s.BuildFrame()
	require.Len(t, f.Draws, 2)
	assert.Same(t, albedo, f.Draws[0].AlbedoTexture)
	assert.Same(t, opacity, f.Draws[0].OpacityTexture)
	assert.Nil(t, f.Draws[1].AlbedoTexture, "hero material has no textures")
}

func TestBuildFrameAddsShadowsAfterReceiver(t *testing.T) {
	s, ground, hero := populatedScene(t)
	key, _ := s.KeyLight()
	g := light.NewShadowGenerator(key)
	g.AddShadowCaster(hero, true)
	s.SetShadowGenerator(g)

	f := s.BuildFrame()
	require.Len(t, f.Draws, 3)
	assert.Equal(t, "mesh-"+itoa(ground.ID()), f.Draws[0].Key)
	assert.Equal(t, "mesh-"+itoa(hero.ID())+"#shadow", f.Draws[1].Key)
	assert.True(t, f.Draws[1].Unlit)
	assert.InDelta(t, light.DefaultShadowDarkness, f.Draws[1].Color.W(), 1e-6)
	assert.Equal(t, "mesh-"+itoa(hero.ID()), f.Draws[2].Key)

	// Projected vertices land on the receiver plane.
	p := f.Draws[1].Model.Mul4x1(mgl32.Vec4{0, 2, 0, 1})
	assert.InDelta(t, light.DefaultShadowBias, p.Y(), 1e-5)
}

func TestBuildFrameSkipsHiddenMeshes(t *testing.T) {
	s, _, hero := populatedScene(t)
	hero.SetVisible(false)
	assert.Len(t, s.BuildFrame().Draws, 1)
}

func TestMeshesIncludeDescendantsOnce(t *testing.T) {
	s := NewScene()
	root := mesh.NewMesh("__root__")
	child := triangle("child")
	root.AddChild(child)

	s.AddMesh(root)
	s.AddMesh(root)
	s.AddMesh(child)

	meshes := s.Meshes()
	require.Len(t, meshes, 2)
	assert.Equal(t, "__root__", meshes[0].Name())

	m, ok := s.MeshByName("child")
	require.True(t, ok)
	assert.Equal(t, child.ID(), m.ID())
	_, ok = s.MeshByName("missing")
	assert.False(t, ok)
}

func itoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}

package scene

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/engine/camera"
	"github.com/Carmen-Shannon/oxy-vr/engine/light"
	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
	"github.com/Carmen-Shannon/oxy-vr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vr/engine/xr"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene is the container every setup stage populates and the render loop reads.
//
// Optional parts (shadow generator, hero, XR experience) are exposed through
// (value, ok) accessors so readers never dereference a missing handle. Writers are
// the initialization stages; the render goroutine reads concurrently through
// BuildFrame. Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// ClearColor returns the RGBA colour the frame is cleared to.
	ClearColor() [4]float64

	// SetClearColor sets the RGBA colour the frame is cleared to.
	SetClearColor(r, g, b, a float64)

	// AddMesh registers m and, implicitly, all of its descendants for rendering.
	// Adding a mesh twice is a no-op.
	//
	// Parameters:
	//   - m: the mesh to register
	AddMesh(m mesh.Mesh)

	// Meshes returns every registered mesh and its descendants, depth-first, without duplicates.
	Meshes() []mesh.Mesh

	// MeshByName returns the first registered mesh with the given name.
	MeshByName(name string) (mesh.Mesh, bool)

	// Ground returns the ground mesh.
	Ground() (mesh.Mesh, bool)

	// SetGround sets the ground mesh and registers it for rendering.
	SetGround(m mesh.Mesh)

	// KeyLight returns the key directional light.
	KeyLight() (light.DirectionalLight, bool)

	// SetKeyLight sets the key directional light.
	SetKeyLight(l light.DirectionalLight)

	// Environment returns the image-based lighting environment.
	Environment() (*light.EnvironmentLighting, bool)

	// SetEnvironment sets the image-based lighting environment.
	SetEnvironment(env *light.EnvironmentLighting)

	// Camera returns the active camera.
	Camera() (camera.ArcRotateCamera, bool)

	// SetCamera sets the active camera.
	SetCamera(c camera.ArcRotateCamera)

	// ShadowGenerator returns the shadow generator, present once shadows are enabled.
	ShadowGenerator() (light.ShadowGenerator, bool)

	// SetShadowGenerator sets the shadow generator.
	SetShadowGenerator(g light.ShadowGenerator)

	// Hero returns the hero mesh, present once the hero asset has loaded.
	Hero() (mesh.Mesh, bool)

	// SetHero sets the hero mesh. It does not register the mesh for rendering.
	SetHero(m mesh.Mesh)

	// XR returns the XR experience, present only when XR initialization succeeded.
	XR() (xr.Experience, bool)

	// SetXR sets the XR experience.
	SetXR(exp xr.Experience)

	// BuildFrame snapshots the scene into a renderer.Frame. Missing parts are
	// tolerated: without a camera the frame only clears.
	//
	// Returns:
	//   - renderer.Frame: the frame to render
	BuildFrame() renderer.Frame
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name       string
	active     bool
	clearColor [4]float64

	meshes []mesh.Mesh

	ground          mesh.Mesh
	keyLight        light.DirectionalLight
	environment     *light.EnvironmentLighting
	camera          camera.ArcRotateCamera
	shadowGenerator light.ShadowGenerator
	hero            mesh.Mesh
	xr              xr.Experience
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the given options.
// The default clear colour is opaque black and the scene starts active.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:         &sync.RWMutex{},
		name:       "scene",
		active:     true,
		clearColor: [4]float64{0, 0, 0, 1},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) ClearColor() [4]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clearColor
}

func (s *scene) SetClearColor(r, g, b, a float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearColor = [4]float64{r, g, b, a}
}

func (s *scene) AddMesh(m mesh.Mesh) {
	if m == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addMeshLocked(m)
}

func (s *scene) addMeshLocked(m mesh.Mesh) {
	if slices.ContainsFunc(s.meshes, func(e mesh.Mesh) bool { return e.ID() == m.ID() }) {
		return
	}
	s.meshes = append(s.meshes, m)
}

func (s *scene) Meshes() []mesh.Mesh {
	s.mu.RLock()
	roots := slices.Clone(s.meshes)
	s.mu.RUnlock()
	return flatten(roots)
}

func (s *scene) MeshByName(name string) (mesh.Mesh, bool) {
	for _, m := range s.Meshes() {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

func (s *scene) Ground() (mesh.Mesh, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ground, s.ground != nil
}

func (s *scene) SetGround(m mesh.Mesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ground = m
	if m != nil {
		s.addMeshLocked(m)
	}
}

func (s *scene) KeyLight() (light.DirectionalLight, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keyLight, s.keyLight != nil
}

func (s *scene) SetKeyLight(l light.DirectionalLight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyLight = l
}

func (s *scene) Environment() (*light.EnvironmentLighting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.environment, s.environment != nil
}

func (s *scene) SetEnvironment(env *light.EnvironmentLighting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.environment = env
}

func (s *scene) Camera() (camera.ArcRotateCamera, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.camera, s.camera != nil
}

func (s *scene) SetCamera(c camera.ArcRotateCamera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = c
}

func (s *scene) ShadowGenerator() (light.ShadowGenerator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shadowGenerator, s.shadowGenerator != nil
}

func (s *scene) SetShadowGenerator(g light.ShadowGenerator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shadowGenerator = g
}

func (s *scene) Hero() (mesh.Mesh, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hero, s.hero != nil
}

func (s *scene) SetHero(m mesh.Mesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hero = m
}

func (s *scene) XR() (xr.Experience, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.xr, s.xr != nil
}

func (s *scene) SetXR(exp xr.Experience) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.xr = exp
}

func (s *scene) BuildFrame() renderer.Frame {
	s.mu.RLock()
	frame := renderer.Frame{
		ClearColor:     s.clearColor,
		LightDirection: mgl32.Vec3{0, -1, 0},
	}
	cam := s.camera
	keyLight := s.keyLight
	env := s.environment
	shadows := s.shadowGenerator
	roots := slices.Clone(s.meshes)
	s.mu.RUnlock()

	if cam == nil {
		return frame
	}
	frame.ViewProjection = cam.ViewProjectionMatrix()
	if keyLight != nil && keyLight.Enabled() {
		frame.LightDirection = keyLight.Direction()
		frame.LightIntensity = keyLight.Intensity()
	}
	if env != nil {
		frame.Ambient = env.Intensity()
	}

	drawables := make([]mesh.Mesh, 0, len(roots))
	for _, m := range flatten(roots) {
		if m.Visible() && m.HasGeometry() {
			drawables = append(drawables, m)
		}
	}
	sort.SliceStable(drawables, func(i, j int) bool {
		return drawables[i].AlphaIndex() < drawables[j].AlphaIndex()
	})

	lastReceiver := -1
	for i, m := range drawables {
		if m.ReceiveShadows() {
			lastReceiver = i
		}
	}

	frame.Draws = make([]renderer.Draw, 0, len(drawables))
	for i, m := range drawables {
		frame.Draws = append(frame.Draws, meshDraw(m))
		if i == lastReceiver && shadows != nil {
			frame.Draws = append(frame.Draws, shadowDraws(shadows, drawables[:i+1])...)
		}
	}
	return frame
}

// meshDraw converts a mesh into a lit draw using its material base colour.
func meshDraw(m mesh.Mesh) renderer.Draw {
	d := renderer.Draw{
		Key:      fmt.Sprintf("mesh-%d", m.ID()),
		Vertices: m.Vertices(),
		Indices:  m.Indices(),
		Model:    m.WorldMatrix(),
		Color:    mgl32.Vec4{1, 1, 1, 1},
	}
	if mat := m.Material(); mat != nil {
		d.Color = mgl32.Vec4(mat.AlbedoColor())
		d.AlbedoTexture = mat.AlbedoTexture()
		d.OpacityTexture = mat.OpacityTexture()
	}
	return d
}

// shadowDraws projects every visible caster onto the highest receiver drawn so far.
func shadowDraws(g light.ShadowGenerator, drawn []mesh.Mesh) []renderer.Draw {
	receiverY := float32(0)
	found := false
	for _, m := range drawn {
		if !m.ReceiveShadows() {
			continue
		}
		y := m.WorldMatrix().Col(3).Y()
		if !found || y > receiverY {
			receiverY = y
			found = true
		}
	}
	if !found {
		return nil
	}
	projection, ok := g.PlanarShadowMatrix(receiverY)
	if !ok {
		return nil
	}

	var draws []renderer.Draw
	for _, c := range g.Casters() {
		if !c.Visible() || !c.HasGeometry() {
			continue
		}
		draws = append(draws, renderer.Draw{
			Key:      fmt.Sprintf("mesh-%d#shadow", c.ID()),
			Vertices: c.Vertices(),
			Indices:  c.Indices(),
			Model:    projection.Mul4(c.WorldMatrix()),
			Color:    mgl32.Vec4{0, 0, 0, g.Darkness()},
			Unlit:    true,
		})
	}
	return draws
}

// flatten expands roots into roots plus descendants, depth-first, without duplicates.
func flatten(roots []mesh.Mesh) []mesh.Mesh {
	seen := make(map[uint64]struct{}, len(roots))
	out := make([]mesh.Mesh, 0, len(roots))
	add := func(m mesh.Mesh) {
		if _, ok := seen[m.ID()]; ok {
			return
		}
		seen[m.ID()] = struct{}{}
		out = append(out, m)
	}
	for _, r := range roots {
		add(r)
		for _, d := range r.Descendants() {
			add(d)
		}
	}
	return out
}

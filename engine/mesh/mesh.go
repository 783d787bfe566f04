package mesh

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultAlphaIndex is the alpha index assigned to meshes that do not request
// a specific draw position. Meshes with a lower alpha index are drawn first.
const DefaultAlphaIndex = math.MaxInt32

// nextID hands out process-unique mesh identifiers.
var nextID atomic.Uint64

// Vertex is the interleaved vertex layout shared by all meshes: position, normal, then
// texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// meshImpl is the implementation of the Mesh interface.
type meshImpl struct {
	mu *sync.RWMutex

	id   uint64
	name string

	position mgl32.Vec3
	rotation mgl32.Quat
	scaling  mgl32.Vec3

	parent   *meshImpl
	children []*meshImpl

	vertices []Vertex
	indices  []uint32

	material       material.Material
	receiveShadows bool
	alphaIndex     int
	visible        bool
}

// Mesh is a named node in the scene hierarchy that may carry renderable geometry.
//
// Meshes own a local transform (position, rotation, scaling) relative to their parent
// and an optional triangle list. Geometry is immutable after construction so the
// renderer can upload it once per mesh ID. Safe for concurrent use: the scene setup
// goroutine writes while the render goroutine reads.
type Mesh interface {
	// ID returns the process-unique identifier of this mesh.
	ID() uint64

	// Name returns the mesh name.
	Name() string

	// Position returns the local translation relative to the parent.
	Position() mgl32.Vec3

	// SetPosition sets the local translation relative to the parent.
	//
	// Parameters:
	//   - p: the new translation
	SetPosition(p mgl32.Vec3)

	// Rotation returns the local rotation quaternion.
	Rotation() mgl32.Quat

	// SetRotation sets the local rotation quaternion.
	//
	// Parameters:
	//   - q: the new rotation
	SetRotation(q mgl32.Quat)

	// Scaling returns the local per-axis scale.
	Scaling() mgl32.Vec3

	// SetScaling sets the local per-axis scale.
	//
	// Parameters:
	//   - s: the new scale
	SetScaling(s mgl32.Vec3)

	// Parent returns the parent mesh, or nil for a root.
	Parent() Mesh

	// Children returns a copy of the direct children.
	Children() []Mesh

	// AddChild re-parents child under this mesh. A child already attached elsewhere
	// is detached first. Attaching a mesh to itself or to one of its descendants is ignored.
	//
	// Parameters:
	//   - child: the mesh to attach
	AddChild(child Mesh)

	// Descendants returns every mesh below this one in depth-first order.
	Descendants() []Mesh

	// LocalMatrix returns the local transform composed from position, rotation and scaling.
	LocalMatrix() mgl32.Mat4

	// WorldMatrix returns the transform from this mesh's space to world space.
	WorldMatrix() mgl32.Mat4

	// Vertices returns the vertex data. The slice must not be modified.
	Vertices() []Vertex

	// Indices returns the triangle list indices. The slice must not be modified.
	Indices() []uint32

	// HasGeometry reports whether the mesh carries at least one triangle.
	HasGeometry() bool

	// Material returns the surface material, or nil.
	Material() material.Material

	// SetMaterial assigns the surface material.
	//
	// Parameters:
	//   - m: the material, or nil
	SetMaterial(m material.Material)

	// ReceiveShadows reports whether shadows are projected onto this mesh.
	ReceiveShadows() bool

	// SetReceiveShadows toggles shadow reception.
	//
	// Parameters:
	//   - receive: true to receive shadows
	SetReceiveShadows(receive bool)

	// AlphaIndex returns the draw-order key; lower values are drawn first.
	AlphaIndex() int

	// SetAlphaIndex sets the draw-order key.
	//
	// Parameters:
	//   - index: the new alpha index
	SetAlphaIndex(index int)

	// Visible reports whether the mesh is drawn.
	Visible() bool

	// SetVisible toggles drawing of the mesh. Children are unaffected.
	//
	// Parameters:
	//   - visible: true to draw
	SetVisible(visible bool)
}

var _ Mesh = &meshImpl{}

// NewMesh creates a new Mesh with an identity transform and the given options applied.
//
// Parameters:
//   - name: the mesh name
//   - options: functional options to configure the mesh
//
// Returns:
//   - Mesh: the newly created mesh
func NewMesh(name string, options ...MeshBuilderOption) Mesh {
	m := &meshImpl{
		mu:         &sync.RWMutex{},
		id:         nextID.Add(1),
		name:       name,
		rotation:   mgl32.QuatIdent(),
		scaling:    mgl32.Vec3{1, 1, 1},
		alphaIndex: DefaultAlphaIndex,
		visible:    true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *meshImpl) ID() uint64 {
	return m.id
}

func (m *meshImpl) Name() string {
	return m.name
}

func (m *meshImpl) Position() mgl32.Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.position
}

func (m *meshImpl) SetPosition(p mgl32.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = p
}

func (m *meshImpl) Rotation() mgl32.Quat {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rotation
}

func (m *meshImpl) SetRotation(q mgl32.Quat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rotation = q
}

func (m *meshImpl) Scaling() mgl32.Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scaling
}

func (m *meshImpl) SetScaling(s mgl32.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scaling = s
}

func (m *meshImpl) Parent() Mesh {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.parent == nil {
		return nil
	}
	return m.parent
}

func (m *meshImpl) Children() []Mesh {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Mesh, len(m.children))
	for i, c := range m.children {
		out[i] = c
	}
	return out
}

func (m *meshImpl) AddChild(child Mesh) {
	c, ok := child.(*meshImpl)
	if !ok || c == m || c.isAncestorOf(m) {
		return
	}

	if old := c.parentImpl(); old != nil {
		old.removeChild(c)
	}

	m.mu.Lock()
	m.children = append(m.children, c)
	m.mu.Unlock()

	c.mu.Lock()
	c.parent = m
	c.mu.Unlock()
}

func (m *meshImpl) Descendants() []Mesh {
	var out []Mesh
	for _, c := range m.Children() {
		out = append(out, c)
		out = append(out, c.Descendants()...)
	}
	return out
}

func (m *meshImpl) LocalMatrix() mgl32.Mat4 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return common.ComposeTRS(m.position, m.rotation, m.scaling)
}

func (m *meshImpl) WorldMatrix() mgl32.Mat4 {
	local := m.LocalMatrix()
	if p := m.parentImpl(); p != nil {
		return p.WorldMatrix().Mul4(local)
	}
	return local
}

func (m *meshImpl) Vertices() []Vertex {
	return m.vertices
}

func (m *meshImpl) Indices() []uint32 {
	return m.indices
}

func (m *meshImpl) HasGeometry() bool {
	return len(m.vertices) > 0 && len(m.indices) >= 3
}

func (m *meshImpl) Material() material.Material {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.material
}

func (m *meshImpl) SetMaterial(mat material.Material) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.material = mat
}

func (m *meshImpl) ReceiveShadows() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.receiveShadows
}

func (m *meshImpl) SetReceiveShadows(receive bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receiveShadows = receive
}

func (m *meshImpl) AlphaIndex() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.alphaIndex
}

func (m *meshImpl) SetAlphaIndex(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alphaIndex = index
}

func (m *meshImpl) Visible() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.visible
}

func (m *meshImpl) SetVisible(visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = visible
}

// parentImpl returns the concrete parent under the read lock.
func (m *meshImpl) parentImpl() *meshImpl {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parent
}

// isAncestorOf reports whether m appears on the parent chain of other.
func (m *meshImpl) isAncestorOf(other *meshImpl) bool {
	for p := other.parentImpl(); p != nil; p = p.parentImpl() {
		if p == m {
			return true
		}
	}
	return false
}

// removeChild detaches c from m's children list. The caller resets c.parent.
func (m *meshImpl) removeChild(c *meshImpl) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.children {
		if existing == c {
			m.children = append(m.children[:i], m.children[i+1:]...)
			return
		}
	}
}

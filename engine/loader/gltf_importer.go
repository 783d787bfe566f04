package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/material"
	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter turns a glTF/GLB payload into a mesh hierarchy.
type gltfImporter interface {
	// Import parses data and builds the node hierarchy under a synthetic root mesh.
	// The root is the first element, followed by every node depth-first.
	//
	// Parameters:
	//   - data: the raw glTF JSON or GLB bytes
	//   - fetch: resolves external buffer URIs relative to the asset
	//
	// Returns:
	//   - []mesh.Mesh: the root followed by every node
	//   - error: error if parsing fails or the asset has no meshes
	Import(data []byte, fetch resourceFetcher) ([]mesh.Mesh, error)
}

var _ gltfImporter = &gltfImporterImpl{}

func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(data []byte, fetch resourceFetcher) ([]mesh.Mesh, error) {
	parser := newGLTFParser(fetch)
	if err := parser.Parse(data); err != nil {
		return nil, fmt.Errorf("failed to parse asset: %w", err)
	}

	doc := parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document after parsing")
	}
	if len(doc.Meshes) == 0 {
		return nil, ErrNoMeshes
	}

	materials, err := newGLTFMaterialExtractor(parser).ExtractAllMaterials()
	if err != nil {
		return nil, fmt.Errorf("material extraction failed: %w", err)
	}

	b := &gltfHierarchyBuilder{
		doc:       doc,
		extractor: newGLTFMeshExtractor(parser),
		materials: materials,
		geometry:  make(map[int]*gltfGeometry),
		visited:   make(map[int]bool),
	}

	root := mesh.NewMesh(RootMeshName)
	b.result = append(b.result, root)

	for _, nodeIdx := range gltfRootNodes(doc) {
		if err := b.visit(nodeIdx, root); err != nil {
			return nil, err
		}
	}

	if !b.hasGeometry {
		return nil, ErrNoMeshes
	}

	return b.result, nil
}

// gltfHierarchyBuilder walks the node graph and accumulates meshes in depth-first order.
type gltfHierarchyBuilder struct {
	doc         *gltfDocument
	extractor   gltfMeshExtractor
	materials   []material.Material
	geometry    map[int]*gltfGeometry
	visited     map[int]bool
	result      []mesh.Mesh
	hasGeometry bool
}

func (b *gltfHierarchyBuilder) visit(nodeIdx int, parent mesh.Mesh) error {
	if nodeIdx < 0 || nodeIdx >= len(b.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", nodeIdx)
	}
	// A node may only appear once in a valid hierarchy.
	if b.visited[nodeIdx] {
		return nil
	}
	b.visited[nodeIdx] = true

	node := &b.doc.Nodes[nodeIdx]

	t, r, s := gltfNodeTRS(node)
	opts := []mesh.MeshBuilderOption{
		mesh.WithPosition(t[0], t[1], t[2]),
		mesh.WithRotation(r),
		mesh.WithScaling(s[0], s[1], s[2]),
	}

	name := node.Name
	if node.Mesh != nil {
		geo, err := b.meshGeometry(*node.Mesh)
		if err != nil {
			return fmt.Errorf("node %d: %w", nodeIdx, err)
		}
		if len(geo.Vertices) > 0 {
			b.hasGeometry = true
			opts = append(opts, mesh.WithGeometry(geo.Vertices, geo.Indices))
		}
		if geo.Material != nil && *geo.Material >= 0 && *geo.Material < len(b.materials) {
			opts = append(opts, mesh.WithMaterial(b.materials[*geo.Material]))
		}
		if name == "" {
			name = b.doc.Meshes[*node.Mesh].Name
		}
	}
	if name == "" {
		name = fmt.Sprintf("node%d", nodeIdx)
	}

	m := mesh.NewMesh(name, opts...)
	parent.AddChild(m)
	b.result = append(b.result, m)

	for _, child := range node.Children {
		if err := b.visit(child, m); err != nil {
			return err
		}
	}

	return nil
}

// meshGeometry extracts a glTF mesh once; instanced meshes share the same slices.
func (b *gltfHierarchyBuilder) meshGeometry(meshIdx int) (*gltfGeometry, error) {
	if geo, ok := b.geometry[meshIdx]; ok {
		return geo, nil
	}
	geo, err := b.extractor.ExtractMesh(meshIdx)
	if err != nil {
		return nil, err
	}
	b.geometry[meshIdx] = geo
	return geo, nil
}

// gltfRootNodes returns the top-level nodes of the default scene, or every parentless
// node when the document declares no scenes.
func gltfRootNodes(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// gltfNodeTRS returns the local transform of a node. A matrix wins over TRS properties.
func gltfNodeTRS(node *gltfNode) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	if node.Matrix != nil {
		return common.DecomposeTRS(mgl32.Mat4(*node.Matrix))
	}

	t := mgl32.Vec3{}
	r := mgl32.QuatIdent()
	s := mgl32.Vec3{1, 1, 1}
	if node.Translation != nil {
		t = mgl32.Vec3(*node.Translation)
	}
	if node.Rotation != nil {
		q := *node.Rotation
		r = mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}.Normalize()
	}
	if node.Scale != nil {
		s = mgl32.Vec3(*node.Scale)
	}
	return t, r, s
}

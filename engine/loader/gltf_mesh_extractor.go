package loader

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
)

// gltfGeometry is the merged triangle geometry of one glTF mesh.
type gltfGeometry struct {
	Vertices []mesh.Vertex
	Indices  []uint32
	// Material is the material index of the first primitive that names one.
	Material *int
	// Skipped counts primitives that were not triangle lists.
	Skipped int
}

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor converts raw glTF accessor data into engine vertices.
type gltfMeshExtractor interface {
	// ExtractMesh merges every triangle primitive of a mesh into one vertex and index list.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//
	// Returns:
	//   - *gltfGeometry: the merged geometry
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) (*gltfGeometry, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) (*gltfGeometry, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	geo := &gltfGeometry{}
	for primIdx := range doc.Meshes[meshIndex].Primitives {
		prim := &doc.Meshes[meshIndex].Primitives[primIdx]
		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			geo.Skipped++
			continue
		}

		vertices, indices, err := e.extractPrimitive(prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}

		base := uint32(len(geo.Vertices))
		geo.Vertices = append(geo.Vertices, vertices...)
		for _, idx := range indices {
			geo.Indices = append(geo.Indices, base+idx)
		}
		if geo.Material == nil && prim.Material != nil {
			m := *prim.Material
			geo.Material = &m
		}
	}

	return geo, nil
}

// extractPrimitive reads positions, normals, texture coordinates and indices of a triangle primitive.
// Non-indexed primitives get a sequential index list.
func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive) ([]mesh.Vertex, []uint32, error) {
	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, nil, fmt.Errorf("primitive has no POSITION attribute")
	}

	positions, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read positions: %w", err)
	}

	vertices := make([]mesh.Vertex, len(positions))
	for i, pos := range positions {
		vertices[i].Position = pos
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read indices: %w", err)
		}
		for _, idx := range indices {
			if int(idx) >= len(vertices) {
				return nil, nil, fmt.Errorf("index %d out of range for %d vertices", idx, len(vertices))
			}
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	// Normals are optional and generated from geometry if absent.
	if normalAccessor, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := e.parser.ReadVec3Accessor(normalAccessor)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read normals: %w", err)
		}
		if len(normals) != len(vertices) {
			return nil, nil, fmt.Errorf("normal count %d does not match vertex count %d", len(normals), len(vertices))
		}
		for i := range normals {
			vertices[i].Normal = normals[i]
		}
	} else {
		generateNormals(vertices, indices)
	}

	if uvAccessor, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := e.parser.ReadVec2Accessor(uvAccessor)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read texcoords: %w", err)
		}
		if len(uvs) != len(vertices) {
			return nil, nil, fmt.Errorf("texcoord count %d does not match vertex count %d", len(uvs), len(vertices))
		}
		for i := range uvs {
			vertices[i].UV = uvs[i]
		}
	}

	return vertices, indices, nil
}

// generateNormals computes smooth vertex normals from the triangle geometry. Face normals
// are accumulated area-weighted onto every vertex of their triangle and normalized at the end.
//
// Parameters:
//   - vertices: the vertex slice to write normal data into
//   - indices: the triangle index buffer
func generateNormals(vertices []mesh.Vertex, indices []uint32) {
	n := len(vertices)
	accum := make([][3]float32, n)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}

		p0, p1, p2 := vertices[i0].Position, vertices[i1].Position, vertices[i2].Position

		edge1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		edge2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}

		faceNormal := [3]float32{
			edge1[1]*edge2[2] - edge1[2]*edge2[1],
			edge1[2]*edge2[0] - edge1[0]*edge2[2],
			edge1[0]*edge2[1] - edge1[1]*edge2[0],
		}

		for _, idx := range []uint32{i0, i1, i2} {
			accum[idx][0] += faceNormal[0]
			accum[idx][1] += faceNormal[1]
			accum[idx][2] += faceNormal[2]
		}
	}

	for i := range n {
		length := float32(math.Sqrt(float64(accum[i][0]*accum[i][0] + accum[i][1]*accum[i][1] + accum[i][2]*accum[i][2])))
		if length < 1e-6 {
			// Degenerate: default to up vector
			vertices[i].Normal = [3]float32{0, 1, 0}
			continue
		}
		invLen := 1.0 / length
		vertices[i].Normal = [3]float32{
			accum[i][0] * invLen,
			accum[i][1] * invLen,
			accum[i][2] * invLen,
		}
	}
}

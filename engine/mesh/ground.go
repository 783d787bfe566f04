package mesh

import (
	"fmt"
)

// NewGround builds a flat, subdivided plane on the XZ axes centred on the origin,
// facing +Y. Subdivisions below 1 are treated as 1.
//
// Parameters:
//   - name: the mesh name
//   - width: extent along X
//   - height: extent along Z
//   - subdivisions: number of cells per side
//   - options: functional options applied after the geometry is set
//
// Returns:
//   - Mesh: the ground mesh
//   - error: error if width or height is not positive
func NewGround(name string, width, height float32, subdivisions int, options ...MeshBuilderOption) (Mesh, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("ground %q: dimensions must be positive, got %gx%g", name, width, height)
	}
	if subdivisions < 1 {
		subdivisions = 1
	}

	row := subdivisions + 1
	vertices := make([]Vertex, 0, row*row)
	for iz := 0; iz <= subdivisions; iz++ {
		for ix := 0; ix <= subdivisions; ix++ {
			u := float32(ix) / float32(subdivisions)
			v := float32(iz) / float32(subdivisions)
			vertices = append(vertices, Vertex{
				Position: [3]float32{-width/2 + width*u, 0, height/2 - height*v},
				Normal:   [3]float32{0, 1, 0},
				UV:       [2]float32{u, v},
			})
		}
	}

	indices := make([]uint32, 0, subdivisions*subdivisions*6)
	for iz := 0; iz < subdivisions; iz++ {
		for ix := 0; ix < subdivisions; ix++ {
			topLeft := uint32(iz*row + ix)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(row)
			bottomRight := bottomLeft + 1
			// Counter-clockwise when viewed from +Y.
			indices = append(indices,
				topLeft, topRight, bottomLeft,
				topRight, bottomRight, bottomLeft,
			)
		}
	}

	opts := append([]MeshBuilderOption{WithGeometry(vertices, indices)}, options...)
	return NewMesh(name, opts...), nil
}

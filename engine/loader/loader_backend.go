package loader

import "github.com/Carmen-Shannon/oxy-vr/engine/mesh"

// loaderBackend defines the format-specific half of an import.
// Concrete implementations (e.g., gltfLoaderBackend) turn raw asset bytes into meshes.
type loaderBackend interface {
	// Load builds the mesh hierarchy from raw asset bytes.
	//
	// Parameters:
	//   - data: the asset bytes
	//   - fetch: resolves URIs referenced by the asset relative to its location
	//
	// Returns:
	//   - []mesh.Mesh: the root mesh followed by every imported node depth-first
	//   - error: error if loading fails
	Load(data []byte, fetch resourceFetcher) ([]mesh.Mesh, error)
}

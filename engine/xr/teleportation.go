package xr

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
)

// Teleportation holds the meshes a user may teleport onto.
type Teleportation interface {
	// AddFloorMesh marks m as a valid teleport destination. Adding twice is a no-op.
	AddFloorMesh(m mesh.Mesh)

	// RemoveFloorMesh removes m from the teleport destinations.
	RemoveFloorMesh(m mesh.Mesh)

	// FloorMeshes returns the teleport destinations in insertion order.
	FloorMeshes() []mesh.Mesh
}

type teleportation struct {
	mu     sync.RWMutex
	floors []mesh.Mesh
}

var _ Teleportation = &teleportation{}

func (t *teleportation) AddFloorMesh(m mesh.Mesh) {
	if m == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.indexOf(m) >= 0 {
		return
	}
	t.floors = append(t.floors, m)
}

func (t *teleportation) RemoveFloorMesh(m mesh.Mesh) {
	if m == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexOf(m); i >= 0 {
		t.floors = slices.Delete(t.floors, i, i+1)
	}
}

func (t *teleportation) FloorMeshes() []mesh.Mesh {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.floors)
}

func (t *teleportation) indexOf(m mesh.Mesh) int {
	return slices.IndexFunc(t.floors, func(f mesh.Mesh) bool {
		return f.ID() == m.ID()
	})
}

package geometry

import (
	"math/rand"

	"github.com/arnegrid/photonforge/pkg/core"
)

// Mesh is a triangle mesh accelerated by its own KD-tree, letting a large
// mesh be dropped into a scene alongside infinite-extent shapes (like Plane)
// that cannot share a single global acceleration structure.
type Mesh struct {
	tree *KDTree[Triangle]
}

// NewMesh builds a mesh (and its KD-tree) from a flat triangle list.
func NewMesh(triangles []Triangle) *Mesh {
	return &Mesh{tree: NewKDTree(triangles)}
}

// Intersect delegates to the mesh's triangle KD-tree.
func (m *Mesh) Intersect(ray core.Ray, tMin float64, rec *HitRecord) bool {
	return m.tree.Intersect(ray, tMin, rec)
}

// BoundingBox returns the union bounds of the mesh's triangles.
func (m *Mesh) BoundingBox() core.AABB {
	return m.tree.BoundingBox()
}

// Sample draws a point on a uniformly chosen triangle of the mesh, suitable
// for using the whole mesh as an area light.
func (m *Mesh) Sample(target core.Vec3, rng *rand.Rand) (point, normal core.Vec3, pdf float64) {
	point, normal, pdf, ok := m.tree.Sample(target, rng)
	if !ok {
		return core.Vec3{}, core.Vec3{}, 0
	}
	return point, normal, pdf
}

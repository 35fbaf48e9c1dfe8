package geometry

import (
	"math/rand"

	"github.com/arnegrid/photonforge/pkg/core"
)

// Triangle is a flat- or smooth-shaded triangle with per-vertex normals
// (flat shading simply repeats the face normal three times).
type Triangle struct {
	V1, V2, V3 core.Vec3
	N1, N2, N3 core.Vec3
}

// NewTriangleFromVertices builds a flat-shaded triangle, deriving its face
// normal from the vertex winding order via the cross product.
func NewTriangleFromVertices(v1, v2, v3 core.Vec3) Triangle {
	n := v2.Subtract(v1).Cross(v3.Subtract(v1)).Normalize()
	return Triangle{V1: v1, V2: v2, V3: v3, N1: n, N2: n, N3: n}
}

// Intersect uses the plane-intersection-plus-barycentric formulation: solve
// for t against the triangle's plane, then recover barycentric coordinates
// via dot products of the hit offset and the two edge vectors.
func (tr Triangle) Intersect(ray core.Ray, tMin float64, rec *HitRecord) bool {
	e1 := tr.V2.Subtract(tr.V1)
	e2 := tr.V3.Subtract(tr.V1)
	faceNormal := e1.Cross(e2)

	denom := faceNormal.Dot(ray.Direction)
	if denom == 0 {
		return false
	}
	t := faceNormal.Dot(tr.V1.Subtract(ray.Origin)) / denom
	if t < tMin || t >= rec.Time {
		return false
	}

	p := ray.At(t)
	// Barycentric coordinates via the standard edge-function formulation.
	v0 := e1
	v1 := e2
	v2 := p.Subtract(tr.V1)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	denomBary := d00*d11 - d01*d01
	if denomBary == 0 {
		return false
	}
	v := (d11*d20 - d01*d21) / denomBary
	w := (d00*d21 - d01*d20) / denomBary
	u := 1 - v - w
	if u < 0 || v < 0 || w < 0 {
		return false
	}

	rec.Time = t
	n := tr.N1.Multiply(u).Add(tr.N2.Multiply(v)).Add(tr.N3.Multiply(w)).Normalize()
	if n.Dot(ray.Direction) > 0 {
		n = n.Negate()
	}
	rec.Normal = n
	return true
}

// BoundingBox returns the box enclosing the three vertices.
func (tr Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(tr.V1, tr.V2, tr.V3)
}

// Area returns the triangle's surface area.
func (tr Triangle) Area() float64 {
	return tr.V2.Subtract(tr.V1).Cross(tr.V3.Subtract(tr.V1)).Length() * 0.5
}

// Sample draws a point uniformly over the triangle via a folded unit square
// and interpolates the vertex normals there.
func (tr Triangle) Sample(target core.Vec3, rng *rand.Rand) (point, normal core.Vec3, pdf float64) {
	u := rng.Float64()
	v := rng.Float64()
	if u+v > 1 {
		u, v = 1-u, 1-v
	}
	w := 1 - u - v
	point = tr.V1.Multiply(u).Add(tr.V2.Multiply(v)).Add(tr.V3.Multiply(w))
	normal = tr.N1.Multiply(u).Add(tr.N2.Multiply(v)).Add(tr.N3.Multiply(w)).Normalize()
	area := tr.Area()
	if area <= 0 {
		return point, normal, 0
	}
	pdf = 1.0 / area
	return point, normal, pdf
}

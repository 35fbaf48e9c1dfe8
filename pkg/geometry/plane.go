package geometry

import (
	"math"
	"math/rand"

	"github.com/arnegrid/photonforge/pkg/core"
)

// Plane is the infinite plane n·x = d. A Plane is not placed inside a
// KDTree (scene.Scene scans its objects linearly): an infinite-extent shape
// has no finite bounding box to partition on.
type Plane struct {
	Normal core.Vec3
	D      float64
}

// NewPlane returns the plane with the given (not necessarily unit) normal
// and offset d, normalizing the normal.
func NewPlane(normal core.Vec3, d float64) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: d}
}

// Intersect finds where the ray crosses the plane, facing the returned
// normal back toward the ray's origin side.
func (p Plane) Intersect(ray core.Ray, tMin float64, rec *HitRecord) bool {
	denom := p.Normal.Dot(ray.Direction)
	if math.Abs(denom) < 1e-12 {
		return false
	}
	t := (p.D - p.Normal.Dot(ray.Origin)) / denom
	if t < tMin || t >= rec.Time {
		return false
	}
	rec.Time = t
	sign := 1.0
	if denom > 0 {
		sign = -1.0
	}
	rec.Normal = p.Normal.Multiply(sign)
	return true
}

// BoundingBox returns an unbounded (infinite-extent) box; Plane must never be
// placed inside a KD-tree, only scanned linearly.
func (p Plane) BoundingBox() core.AABB {
	inf := math.Inf(1)
	return core.NewAABB(core.NewVec3(-inf, -inf, -inf), core.NewVec3(inf, inf, inf))
}

// Sample is unsupported: an infinite plane has no well-defined uniform-area
// sample and is never used as a light in this renderer. It exists only to
// satisfy callers that probe for Sampleable via a type assertion.
func (p Plane) Sample(target core.Vec3, rng *rand.Rand) (point, normal core.Vec3, pdf float64) {
	panic("geometry: Plane does not support Sample; use a finite shape as an area light")
}

package geometry

import (
	"math/rand"

	"github.com/arnegrid/photonforge/pkg/core"
)

// Cube is a unit cube centered at the origin, spanning [-0.5, 0.5] on each
// axis (so a face-to-face edge has length 1).
type Cube struct{}

// NewCube returns a unit cube shape.
func NewCube() Cube { return Cube{} }

// Intersect runs the slab method across the three axes, picking the entering
// face with the latest start time and the exiting face with the earliest end
// time, and reporting whichever of those two the ray actually stops at.
func (c Cube) Intersect(ray core.Ray, tMin float64, rec *HitRecord) bool {
	interval := func(origin, dir float64, axisNormal core.Vec3) (lo, hi float64, loN, hiN core.Vec3) {
		x1 := (-0.5 - origin) / dir
		x2 := (0.5 - origin) / dir
		n1, n2 := axisNormal.Multiply(-1), axisNormal
		if x1 > x2 {
			x1, x2 = x2, x1
			n1, n2 = n2, n1
		}
		return x1, x2, n1, n2
	}

	x1, x2, x1n, x2n := interval(ray.Origin.X, ray.Direction.X, core.NewVec3(1, 0, 0))
	y1, y2, y1n, y2n := interval(ray.Origin.Y, ray.Direction.Y, core.NewVec3(0, 1, 0))
	z1, z2, z1n, z2n := interval(ray.Origin.Z, ray.Direction.Z, core.NewVec3(0, 0, 1))

	start, startNormal := x1, x1n
	switch {
	case y1 > x1 && y1 > z1:
		start, startNormal = y1, y1n
	case z1 > x1 && z1 > y1:
		start, startNormal = z1, z1n
	}

	end, endNormal := x2, x2n
	switch {
	case y2 < x2 && y2 < z2:
		end, endNormal = y2, y2n
	case z2 < x2 && z2 < y2:
		end, endNormal = z2, z2n
	}

	if start > end || end < tMin {
		return false
	}

	time, normal := start, startNormal
	if start < tMin {
		time, normal = end, endNormal
	}

	if time >= tMin && time < rec.Time {
		rec.Time = time
		rec.Normal = normal
		return true
	}
	return false
}

// BoundingBox returns the bounds of the unit cube.
func (c Cube) BoundingBox() core.AABB {
	return core.NewAABB(core.NewVec3(-0.5, -0.5, -0.5), core.NewVec3(0.5, 0.5, 0.5))
}

// Sample draws a point uniformly over one of the cube's six faces, weighted
// by face area (equal for a cube, so a face is chosen uniformly).
func (c Cube) Sample(target core.Vec3, rng *rand.Rand) (point, normal core.Vec3, pdf float64) {
	face := rng.Intn(6)
	u := rng.Float64() - 0.5
	v := rng.Float64() - 0.5
	switch face {
	case 0:
		point, normal = core.NewVec3(0.5, u, v), core.NewVec3(1, 0, 0)
	case 1:
		point, normal = core.NewVec3(-0.5, u, v), core.NewVec3(-1, 0, 0)
	case 2:
		point, normal = core.NewVec3(u, 0.5, v), core.NewVec3(0, 1, 0)
	case 3:
		point, normal = core.NewVec3(u, -0.5, v), core.NewVec3(0, -1, 0)
	case 4:
		point, normal = core.NewVec3(u, v, 0.5), core.NewVec3(0, 0, 1)
	default:
		point, normal = core.NewVec3(u, v, -0.5), core.NewVec3(0, 0, -1)
	}
	const totalArea = 6 * 1 // six unit faces
	pdf = 1.0 / totalArea
	return point, normal, pdf
}

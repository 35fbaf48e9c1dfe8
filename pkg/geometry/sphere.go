package geometry

import (
	"math"
	"math/rand"

	"github.com/arnegrid/photonforge/pkg/core"
)

// Sphere is a unit sphere centered at the origin. Transform it (via
// Transformed) to place, scale, or stretch it elsewhere.
type Sphere struct{}

// NewSphere returns a unit sphere shape.
func NewSphere() Sphere { return Sphere{} }

// Intersect solves the ray/sphere quadratic and reports the nearer root that
// lies at or beyond tMin, falling back to the farther root (for rays
// originating inside the sphere).
func (s Sphere) Intersect(ray core.Ray, tMin float64, rec *HitRecord) bool {
	oc := ray.Origin
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - 1
	disc := halfB*halfB - a*c
	if disc < 0 {
		return false
	}
	sqrtDisc := math.Sqrt(disc)

	t := (-halfB - sqrtDisc) / a
	if t < tMin || t >= rec.Time {
		t = (-halfB + sqrtDisc) / a
		if t < tMin || t >= rec.Time {
			return false
		}
	}

	rec.Time = t
	rec.Normal = ray.At(t).Normalize()
	return true
}

// BoundingBox returns the axis-aligned bounds of the unit sphere.
func (s Sphere) BoundingBox() core.AABB {
	return core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
}

// Sample draws a point uniformly over the sphere's surface area for use as
// an area light; the target parameter is unused (the unit sphere's area
// sampling is target-independent) but kept to satisfy Sampleable. The PDF is
// in the area measure (1/surface area); Light.Illuminate converts it to a
// solid-angle contribution.
func (s Sphere) Sample(target core.Vec3, rng *rand.Rand) (point, normal core.Vec3, pdf float64) {
	n := uniformSphereDirection(rng)
	return n, n, 1.0 / (4 * math.Pi)
}

func uniformSphereDirection(rng *rand.Rand) core.Vec3 {
	z := 1 - 2*rng.Float64()
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * rng.Float64()
	return core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// Package geometry implements ray/primitive intersection for the renderer's
// supported shapes, the KD-tree acceleration structure, and the affine
// transform wrapper that composes with any shape.
package geometry

import (
	"math"
	"math/rand"

	"github.com/arnegrid/photonforge/pkg/core"
)

// HitRecord holds the result of the closest intersection found so far along
// a ray. Time starts at +Inf and only ever tightens.
type HitRecord struct {
	Time   float64
	Normal core.Vec3
}

// NewHitRecord returns a HitRecord ready to be passed to Intersect, with no
// hit recorded yet.
func NewHitRecord() HitRecord {
	return HitRecord{Time: math.Inf(1)}
}

// Shape is implemented by every primitive the renderer can place in a scene.
// Intersect mutates rec if and only if the shape is hit at some
// t in [tMin, rec.Time), tightening rec.Time and rec.Normal.
type Shape interface {
	Intersect(ray core.Ray, tMin float64, rec *HitRecord) bool
	BoundingBox() core.AABB
}

// Sampleable is implemented by shapes that can serve as an area light:
// Sample draws a point and outward normal on the shape visible from target,
// along with the PDF of that point with respect to surface area (light.Object
// converts it to a solid-angle density as seen from target).
type Sampleable interface {
	Shape
	Sample(target core.Vec3, rng *rand.Rand) (point, normal core.Vec3, pdf float64)
}

package renderer

import (
	"math"
	"math/rand"

	"github.com/arnegrid/photonforge/pkg/core"
	"github.com/arnegrid/photonforge/pkg/material"
)

// TraceRay implements the unidirectional, next-event-estimation path tracer
// from spec.md §4.7: on each hit it adds emission, explicit light sampling
// with a shadow ray per light, and (while depth remains) one BSDF-sampled
// continuation, recursively.
func (r *Renderer) TraceRay(ray core.Ray, depth int, rng *rand.Rand) core.Vec3 {
	hit, ok := r.Scene.Intersect(ray, Epsilon)
	if !ok {
		return r.Scene.Environment.Color(ray.Direction)
	}

	p := ray.At(hit.Record.Time)
	n := hit.Record.Normal
	wo := ray.Direction.Normalize().Negate()
	mat := hit.Material

	color := mat.Color.Multiply(mat.Emittance)
	color = color.Add(r.directLighting(p, n, wo, mat, rng))

	if depth > 0 {
		s, ok := mat.SampleF(n, wo, rng)
		if ok && s.PDF > 0 {
			cosTheta := math.Abs(s.Wi.Dot(n))
			f := mat.BSDF(n, wo, s.Wi)

			continuation := core.NewRay(p, s.Wi)
			incoming := r.TraceRay(continuation, depth-1, rng)

			indirect := f.MultiplyVec(incoming).Multiply(cosTheta / s.PDF)
			indirect = clampColor(indirect, FireflyClamp)
			color = color.Add(indirect)
		}
	}

	return color
}

// directLighting sums every light's explicit-sample contribution at a hit:
// ambient lights add unconditionally, every other variant is shadow-tested
// before its BSDF-weighted contribution is added. Shared between the
// recursive path tracer and the photon-mapping gather pass.
func (r *Renderer) directLighting(p, n, wo core.Vec3, mat material.Material, rng *rand.Rand) core.Vec3 {
	total := core.Vec3{}
	for _, l := range r.Scene.Lights {
		if l.IsAmbient() {
			sample := l.Illuminate(p, rng)
			total = total.Add(sample.Intensity.MultiplyVec(mat.Color))
			continue
		}

		sample := l.Illuminate(p, rng)
		if sample.Intensity.IsZero() {
			continue
		}

		shadowRay := core.NewRay(p, sample.Direction)
		if r.Scene.Occluded(shadowRay, Epsilon, sample.Distance) {
			continue
		}

		cosTheta := sample.Direction.Dot(n)
		if cosTheta <= 0 {
			continue
		}

		f := mat.BSDF(n, wo, sample.Direction)
		total = total.Add(f.MultiplyVec(sample.Intensity).Multiply(cosTheta))
	}
	return total
}

func clampColor(c core.Vec3, max float64) core.Vec3 {
	return core.Vec3{
		X: math.Min(c.X, max),
		Y: math.Min(c.Y, max),
		Z: math.Min(c.Z, max),
	}
}

package renderer

import (
	"fmt"
	"image"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/arnegrid/photonforge/pkg/buffer"
	"github.com/arnegrid/photonforge/pkg/core"
	"github.com/arnegrid/photonforge/pkg/light"
	"github.com/arnegrid/photonforge/pkg/material"
)

// photonGatherN is the nearest-photon count queried at each gather point.
const photonGatherN = 100

// Photon is a single recorded diffuse-bounce event during the photon-shoot
// pass: the position it landed at, the direction it arrived from, and the
// radiant power it carries.
type Photon struct {
	Position  core.Vec3
	Direction core.Vec3 // unit, pointing back toward the previous bounce
	Power     core.Vec3
}

// photonMap is a three-dimensional spatial index over photons, distinct
// from the triangle KDTree[T Shape] in pkg/geometry since photons carry no
// Intersect/BoundingBox behavior — only point-nearest-neighbor queries.
type photonMap struct {
	photons []Photon
	root    *photonNode
}

type photonNode struct {
	index    int
	axis     int
	children [2]*photonNode
}

func newPhotonMap(photons []Photon) *photonMap {
	pm := &photonMap{photons: photons}
	indices := make([]int, len(photons))
	for i := range indices {
		indices[i] = i
	}
	pm.root = pm.build(indices, 0)
	return pm
}

func (pm *photonMap) build(indices []int, depth int) *photonNode {
	if len(indices) == 0 {
		return nil
	}
	axis := depth % 3
	sort.Slice(indices, func(i, j int) bool {
		return component(pm.photons[indices[i]].Position, axis) < component(pm.photons[indices[j]].Position, axis)
	})
	mid := len(indices) / 2
	node := &photonNode{index: indices[mid], axis: axis}
	node.children[0] = pm.build(indices[:mid], depth+1)
	node.children[1] = pm.build(indices[mid+1:], depth+1)
	return node
}

func component(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

type photonCandidate struct {
	index    int
	distSqr  float64
}

// nearest returns up to n nearest photons to target, along with the distance
// to the farthest one returned (the gather disc radius).
func (pm *photonMap) nearest(target core.Vec3, n int) ([]Photon, float64) {
	if pm.root == nil {
		return nil, 0
	}
	var best []photonCandidate
	pm.search(pm.root, target, n, &best)

	sort.Slice(best, func(i, j int) bool { return best[i].distSqr < best[j].distSqr })
	result := make([]Photon, len(best))
	for i, c := range best {
		result[i] = pm.photons[c.index]
	}
	maxDist := 0.0
	if len(best) > 0 {
		maxDist = math.Sqrt(best[len(best)-1].distSqr)
	}
	return result, maxDist
}

func (pm *photonMap) search(node *photonNode, target core.Vec3, n int, best *[]photonCandidate) {
	if node == nil {
		return
	}
	p := pm.photons[node.index].Position
	d := p.Subtract(target).LengthSquared()
	insertCandidate(best, photonCandidate{index: node.index, distSqr: d}, n)

	diff := component(target, node.axis) - component(p, node.axis)
	near, far := node.children[0], node.children[1]
	if diff > 0 {
		near, far = node.children[1], node.children[0]
	}
	pm.search(near, target, n, best)

	if len(*best) < n || diff*diff < (*best)[len(*best)-1].distSqr {
		pm.search(far, target, n, best)
	}
}

func insertCandidate(best *[]photonCandidate, c photonCandidate, n int) {
	list := *best
	i := sort.Search(len(list), func(i int) bool { return list[i].distSqr >= c.distSqr })
	list = append(list, photonCandidate{})
	copy(list[i+1:], list[i:])
	list[i] = c
	if len(list) > n {
		list = list[:n]
	}
	*best = list
}

// areaLights type-asserts every scene light down to light.Object, panicking
// with a descriptive message (per spec.md §7's "programmer error" class) if
// any light is a different variant — the photon-shoot pass has nowhere to
// sample an emissive point from an Ambient, Point, or Directional light.
func (r *Renderer) areaLights() []light.Object {
	lights := make([]light.Object, 0, len(r.Scene.Lights))
	for i, l := range r.Scene.Lights {
		lo, ok := l.(light.Object)
		if !ok {
			panic(fmt.Sprintf("renderer: PhotonMapRender requires all scene lights to be area (Object) lights, light %d is not", i))
		}
		lights = append(lights, lo)
	}
	if len(lights) == 0 {
		panic("renderer: PhotonMapRender requires at least one light")
	}
	return lights
}

// shootPhotons implements spec.md §4.8 pass 1: photon_count photons are
// emitted from uniformly-chosen area lights, cosine-sampled over the
// hemisphere above the sampled point's outward normal, and traced through
// the scene with Russian-roulette survival drawn from the hit material's
// diffuse reflectance (Open Question #2: specular bounces are never folded
// into the survival probability, and photons are only recorded at bounces
// off a surface with some diffuse component).
func (r *Renderer) shootPhotons(photonCount int) []Photon {
	lights := r.areaLights()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var photons []Photon
	for i := 0; i < photonCount; i++ {
		lt := lights[rng.Intn(len(lights))]
		point, normal, pdf := lt.Shape.Sample(core.Vec3{}, rng)
		if pdf <= 0 {
			continue
		}
		dir := core.RandomCosineDirection(normal, rng)

		// Emitted flux estimator: Le * pi / pdf_area accounts for the
		// cosine-weighted direction pdf (cos(theta)/pi) cancelling the
		// Lambertian cos(theta) term in the emission integral; dividing by
		// photonCount/len(lights) normalises for the even light selection.
		power := lt.Material.Color.Multiply(lt.Material.Emittance * math.Pi * float64(len(lights)) / (pdf * float64(photonCount)))

		ray := core.NewRay(point, dir)
		r.tracePhoton(ray, power, r.MaxBounces, rng, &photons)
	}
	return photons
}

func (r *Renderer) tracePhoton(ray core.Ray, power core.Vec3, depth int, rng *rand.Rand, photons *[]Photon) {
	if depth <= 0 {
		return
	}

	hit, ok := r.Scene.Intersect(ray, Epsilon)
	if !ok {
		return
	}

	p := ray.At(hit.Record.Time)
	n := hit.Record.Normal
	wo := ray.Direction.Normalize().Negate()
	mat := hit.Material

	diffuseReflectance := mat.Color.Multiply(1 - mat.Metallic)
	survival := math.Max(diffuseReflectance.X, math.Max(diffuseReflectance.Y, diffuseReflectance.Z))
	if survival <= 0 || rng.Float64() > survival {
		return
	}

	if !mat.Transparent && mat.Metallic < 1 {
		*photons = append(*photons, Photon{Position: p, Direction: wo, Power: power})
	}

	s, ok := mat.SampleF(n, wo, rng)
	if !ok || s.PDF <= 0 {
		return
	}
	cosTheta := math.Abs(s.Wi.Dot(n))
	f := mat.BSDF(n, wo, s.Wi)
	nextPower := power.MultiplyVec(f).Multiply(cosTheta / (s.PDF * survival))

	r.tracePhoton(core.NewRay(p, s.Wi), nextPower, depth-1, rng, photons)
}

// gatherIndirect implements spec.md §4.8 pass 2's radiance estimate at one
// primary hit: the CLOSEST_N_PHOTONS nearest photons contribute
// bsdf(n,wo,photon.direction)*photon.power, normalised by the area of the
// disc (pi*r_max^2) enclosing the query.
func (r *Renderer) gatherIndirect(pm *photonMap, p, n, wo core.Vec3, mat material.Material) core.Vec3 {
	photons, rMax := pm.nearest(p, photonGatherN)
	if len(photons) == 0 || rMax <= 0 {
		return core.Vec3{}
	}

	sum := core.Vec3{}
	for _, ph := range photons {
		f := mat.BSDF(n, wo, ph.Direction)
		sum = sum.Add(f.MultiplyVec(ph.Power))
	}
	return sum.Multiply(1 / (math.Pi * rMax * rMax))
}

// tracePrimaryPhotonHit resolves one camera ray for the photon-mapping
// render: emission and explicit direct lighting as in TraceRay, plus
// photon-gathered indirect radiance at the primary hit instead of a
// recursive BSDF-sampled continuation.
func (r *Renderer) tracePrimaryPhotonHit(ray core.Ray, pm *photonMap, rng *rand.Rand) core.Vec3 {
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
	color = color.Add(r.gatherIndirect(pm, p, n, wo, mat))
	return color
}

// PhotonMapRender implements spec.md §4.8's two-pass photon-mapping variant.
// It requires every light in the scene to be a light.Object (an emissive
// shape); any other light variant is a precondition violation and panics,
// per spec.md §7's "programmer error" failure class. iterations scales how
// many independent photon-shoot-and-gather rounds are averaged together,
// each contributing photonCount/iterations photons, to bound peak memory on
// very large photon counts.
func (r *Renderer) PhotonMapRender(photonCount int, iterations int) *image.RGBA {
	r.areaLights()
	if iterations < 1 {
		iterations = 1
	}

	buf := buffer.New(r.Width, r.Height, r.FilterRadius)
	perIteration := photonCount / iterations

	for it := 0; it < iterations; it++ {
		photons := r.shootPhotons(perIteration)
		pm := newPhotonMap(photons)

		pool := pond.NewPool(r.Workers)
		for y := 0; y < r.Height; y++ {
			y := y
			pool.Submit(func() {
				rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(y)))
				jitter := 1.0 / math.Max(float64(r.Width), float64(r.Height))
				for x := 0; x < r.Width; x++ {
					for s := 0; s < r.NumSamples; s++ {
						jx := (rng.Float64()*2 - 1) * jitter
						jy := (rng.Float64()*2 - 1) * jitter
						sx, sy := r.normalizedScreen(x, y, jx, jy)
						ray := r.Camera.CastRay(sx, sy, rng)
						c := r.tracePrimaryPhotonHit(ray, pm, rng)
						buf.AddSample(x, y, r.exposed(c))
					}
				}
			})
		}
		pool.StopAndWait()
	}

	return buf.Image()
}

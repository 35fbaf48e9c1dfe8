package geometry

import (
	"math/rand"
	"sort"

	"github.com/arnegrid/photonforge/pkg/core"
)

// leafCutoff is the minimum primitive count below which KDTree always
// produces a leaf rather than attempting a further split.
const leafCutoff = 16

// scoreThreshold bounds how lopsided a split may be before the tree gives up
// and leaves the primitives in one leaf instead. A score near 1.0 means
// nearly every primitive straddles both sides of the candidate split, which
// makes splitting pointless.
const scoreThreshold = 0.85

// kdNode is either a leaf holding a list of primitive indices, or an
// axis-aligned split with a near/far child pair.
type kdNode struct {
	leaf     []int
	isLeaf   bool
	axis     int
	value    float64
	children [2]*kdNode // [0]=low side, [1]=high side
}

// KDTree accelerates ray intersection over a set of bounded, intersectable
// primitives using a recursive median-split partition with a skip threshold.
// The renderer's triangle meshes use it; the photon map in pkg/renderer keeps
// its own point k-d tree.
type KDTree[T Shape] struct {
	objects []T
	bounds  core.AABB
	root    *kdNode
}

// NewKDTree builds a KD-tree over objects. An empty slice produces a tree
// whose Intersect always misses.
func NewKDTree[T Shape](objects []T) *KDTree[T] {
	t := &KDTree[T]{objects: objects, bounds: core.EmptyAABB()}
	indices := make([]int, len(objects))
	boxes := make([]core.AABB, len(objects))
	for i, obj := range objects {
		indices[i] = i
		boxes[i] = obj.BoundingBox()
		t.bounds = t.bounds.Union(boxes[i])
	}
	t.root = construct(indices, boxes)
	return t
}

func construct(indices []int, boxes []core.AABB) *kdNode {
	if len(indices) < leafCutoff {
		return &kdNode{leaf: indices, isLeaf: true}
	}

	bestAxis, bestValue, bestScore := -1, 0.0, 2.0
	var longestAxis int
	var longestExtent float64
	longestAxis = -1

	for axis := 0; axis < 3; axis++ {
		mins := make([]float64, len(indices))
		maxs := make([]float64, len(indices))
		for i, idx := range indices {
			mins[i] = axisValue(boxes[idx].Min, axis)
			maxs[i] = axisValue(boxes[idx].Max, axis)
		}
		extent := percentileSpread(mins, maxs)
		if longestAxis == -1 || extent > longestExtent {
			longestAxis, longestExtent = axis, extent
		}

		value := medianOf(append(append([]float64{}, mins...), maxs...))
		score := partitionScore(boxes, indices, axis, value)
		if score < bestScore {
			bestAxis, bestValue, bestScore = axis, value, score
		}
	}

	threshold := scoreThreshold * float64(len(indices))
	if bestScore >= threshold {
		return &kdNode{leaf: indices, isLeaf: true}
	}

	axis, value := bestAxis, bestValue
	if longestAxis != bestAxis {
		longestScore := partitionScore(boxes, indices, longestAxis, medianAxisValue(boxes, indices, longestAxis))
		if longestScore < threshold {
			axis = longestAxis
			value = medianAxisValue(boxes, indices, longestAxis)
		}
	}

	var lowIdx, highIdx []int
	for _, idx := range indices {
		box := boxes[idx]
		if axisValue(box.Min, axis) <= value {
			lowIdx = append(lowIdx, idx)
		}
		if axisValue(box.Max, axis) >= value {
			highIdx = append(highIdx, idx)
		}
	}
	if len(lowIdx) == 0 || len(highIdx) == 0 || (len(lowIdx) == len(indices) && len(highIdx) == len(indices)) {
		return &kdNode{leaf: indices, isLeaf: true}
	}

	return &kdNode{
		axis:  axis,
		value: value,
		children: [2]*kdNode{
			construct(lowIdx, boxes),
			construct(highIdx, boxes),
		},
	}
}

func axisValue(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func medianOf(values []float64) float64 {
	sort.Float64s(values)
	return values[len(values)/2]
}

func medianAxisValue(boxes []core.AABB, indices []int, axis int) float64 {
	vals := make([]float64, 0, len(indices)*2)
	for _, idx := range indices {
		vals = append(vals, axisValue(boxes[idx].Min, axis), axisValue(boxes[idx].Max, axis))
	}
	return medianOf(vals)
}

func percentileSpread(mins, maxs []float64) float64 {
	lo, hi := mins[0], maxs[0]
	for i := range mins {
		if mins[i] < lo {
			lo = mins[i]
		}
		if maxs[i] > hi {
			hi = maxs[i]
		}
	}
	return hi - lo
}

// partitionScore returns the larger of the two side counts produced by
// splitting at value along axis, counting primitives whose box straddles the
// split on both sides. A smaller score is a more even, more useful split.
func partitionScore(boxes []core.AABB, indices []int, axis int, value float64) float64 {
	lowCount, highCount := 0, 0
	for _, idx := range indices {
		box := boxes[idx]
		if axisValue(box.Min, axis) <= value {
			lowCount++
		}
		if axisValue(box.Max, axis) >= value {
			highCount++
		}
	}
	if lowCount > highCount {
		return float64(lowCount)
	}
	return float64(highCount)
}

// Intersect descends the tree, tightening rec as the spec's three-case
// traversal rule dictates: a candidate split is skipped entirely on whichever
// side the ray cannot reach within the current record time.
func (t *KDTree[T]) Intersect(ray core.Ray, tMin float64, rec *HitRecord) bool {
	if t.root == nil {
		return false
	}
	tEnter, tExit, ok := t.bounds.Intersect(ray, tMin, rec.Time)
	if !ok {
		return false
	}
	return t.intersectNode(t.root, ray, tEnter, tExit, rec)
}

func (t *KDTree[T]) intersectNode(node *kdNode, ray core.Ray, tMin, tMax float64, rec *HitRecord) bool {
	if node.isLeaf {
		hit := false
		for _, idx := range node.leaf {
			if t.objects[idx].Intersect(ray, tMin, rec) {
				hit = true
			}
		}
		return hit
	}

	origin := axisValue(ray.Origin, node.axis)
	dir := axisValue(ray.Direction, node.axis)

	near, far := node.children[0], node.children[1]
	if dir < 0 {
		near, far = far, near
	}

	if dir == 0 {
		// Ray parallel to the split plane: origin on the low side visits
		// only near (which already contains its box), else only far.
		if origin <= node.value {
			return t.intersectNode(near, ray, tMin, tMax, rec)
		}
		return t.intersectNode(far, ray, tMin, tMax, rec)
	}

	tSplit := (node.value - origin) / dir

	if tSplit > minF(tMax, rec.Time) || tSplit <= 0 {
		return t.intersectNode(near, ray, tMin, tMax, rec)
	}
	if tSplit < tMin {
		return t.intersectNode(far, ray, tMin, tMax, rec)
	}

	hitNear := t.intersectNode(near, ray, tMin, tSplit, rec)
	if hitNear && rec.Time < tSplit {
		return true
	}
	hitFar := t.intersectNode(far, ray, tSplit, tMax, rec)
	return hitNear || hitFar
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// BoundingBox returns the union bounding box of every primitive in the tree.
func (t *KDTree[T]) BoundingBox() core.AABB {
	return t.bounds
}

// Sample picks one primitive uniformly at random and samples it, dividing
// the returned PDF by the primitive count.
func (t *KDTree[T]) Sample(target core.Vec3, rng *rand.Rand) (point, normal core.Vec3, pdf float64, ok bool) {
	if len(t.objects) == 0 {
		return core.Vec3{}, core.Vec3{}, 0, false
	}
	s, sampleable := any(t.objects[rng.Intn(len(t.objects))]).(Sampleable)
	if !sampleable {
		return core.Vec3{}, core.Vec3{}, 0, false
	}
	point, normal, pdf = s.Sample(target, rng)
	pdf /= float64(len(t.objects))
	return point, normal, pdf, true
}

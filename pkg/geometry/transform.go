package geometry

import (
	"math"
	"math/rand"

	"github.com/arnegrid/photonforge/pkg/core"
)

// Mat3 is a 3x3 matrix, row-major, used for the linear part of an affine
// transform (translation is carried separately since every transform here is
// rigid/linear-plus-offset, never projective).
type Mat3 [3][3]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Mul returns m applied to v.
func (m Mat3) Mul(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		m[0][0]*v.X+m[0][1]*v.Y+m[0][2]*v.Z,
		m[1][0]*v.X+m[1][1]*v.Y+m[1][2]*v.Z,
		m[2][0]*v.X+m[2][1]*v.Y+m[2][2]*v.Z,
	)
}

// MulMat returns the matrix product m * other.
func (m Mat3) MulMat(other Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += m[i][k] * other[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// Determinant returns det(m).
func (m Mat3) Determinant() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns the inverse of m via the adjugate/determinant formula.
func (m Mat3) Inverse() Mat3 {
	det := m.Determinant()
	invDet := 1.0 / det
	var out Mat3
	out[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * invDet
	out[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * invDet
	out[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * invDet
	out[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * invDet
	out[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * invDet
	out[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * invDet
	out[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * invDet
	out[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * invDet
	out[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * invDet
	return out
}

// Transpose returns the transpose of m.
func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

func scale3(x, y, z float64) Mat3 {
	return Mat3{{x, 0, 0}, {0, y, 0}, {0, 0, z}}
}

func rotateX3(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{{1, 0, 0}, {0, c, -s}, {0, s, c}}
}

func rotateY3(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

func rotateZ3(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
}

// Transformed wraps a shape with an affine transform (linear part +
// translation), precomputing the inverse, the normal transform (inverse
// transpose of the linear part), and the determinant used to rescale sampled
// PDFs, so repeated intersect/sample calls never recompute them.
type Transformed[T Shape] struct {
	shape       T
	linear      Mat3
	inverse     Mat3
	normalXform Mat3
	translation core.Vec3
	det         float64
}

// NewTransformed wraps shape with the identity transform.
func NewTransformed[T Shape](shape T) *Transformed[T] {
	return &Transformed[T]{
		shape:       shape,
		linear:      Identity3(),
		inverse:     Identity3(),
		normalXform: Identity3(),
		det:         1,
	}
}

// compose returns a new Transformed applying `linear`/`translation` after the
// existing transform, composing matrices instead of nesting wrapper layers
// (so shape.Translate(a).Scale(b) remains a single Transformed).
func (t *Transformed[T]) compose(linear Mat3, translation core.Vec3) *Transformed[T] {
	newLinear := linear.MulMat(t.linear)
	newTranslation := linear.Mul(t.translation).Add(translation)
	return &Transformed[T]{
		shape:       t.shape,
		linear:      newLinear,
		inverse:     newLinear.Inverse(),
		normalXform: newLinear.Inverse().Transpose(),
		translation: newTranslation,
		det:         newLinear.Determinant(),
	}
}

// Translate returns a copy of t additionally translated by v.
func (t *Transformed[T]) Translate(v core.Vec3) *Transformed[T] {
	return t.compose(Identity3(), v)
}

// Scale returns a copy of t additionally scaled by (x, y, z).
func (t *Transformed[T]) Scale(x, y, z float64) *Transformed[T] {
	return t.compose(scale3(x, y, z), core.Vec3{})
}

// RotateX returns a copy of t additionally rotated about the X axis by angle
// radians.
func (t *Transformed[T]) RotateX(angle float64) *Transformed[T] {
	return t.compose(rotateX3(angle), core.Vec3{})
}

// RotateY returns a copy of t additionally rotated about the Y axis by angle
// radians.
func (t *Transformed[T]) RotateY(angle float64) *Transformed[T] {
	return t.compose(rotateY3(angle), core.Vec3{})
}

// RotateZ returns a copy of t additionally rotated about the Z axis by angle
// radians.
func (t *Transformed[T]) RotateZ(angle float64) *Transformed[T] {
	return t.compose(rotateZ3(angle), core.Vec3{})
}

func (t *Transformed[T]) toLocal(p core.Vec3) core.Vec3 {
	return t.inverse.Mul(p.Subtract(t.translation))
}

func (t *Transformed[T]) toWorldPoint(p core.Vec3) core.Vec3 {
	return t.linear.Mul(p).Add(t.translation)
}

func (t *Transformed[T]) toWorldNormal(n core.Vec3) core.Vec3 {
	return t.normalXform.Mul(n).Normalize()
}

func (t *Transformed[T]) toLocalRay(ray core.Ray) core.Ray {
	return core.NewRay(t.toLocal(ray.Origin), t.inverse.Mul(ray.Direction))
}

// Intersect transforms the ray into the shape's local space, delegates, and
// transforms the resulting normal back with the precomputed normal matrix.
func (t *Transformed[T]) Intersect(ray core.Ray, tMin float64, rec *HitRecord) bool {
	localRay := t.toLocalRay(ray)
	// Local-space direction may not be unit length after a non-uniform
	// scale; rescale tMin/rec.Time into local units via the direction's
	// local length so the hit time stays meaningful in world space.
	localLen := localRay.Direction.Length()
	if localLen == 0 {
		return false
	}
	worldRec := *rec
	localRec := HitRecord{Time: rec.Time * localLen}
	localTMin := tMin * localLen
	normalizedLocalRay := core.NewRay(localRay.Origin, localRay.Direction.Multiply(1/localLen))

	if !t.shape.Intersect(normalizedLocalRay, localTMin, &localRec) {
		*rec = worldRec
		return false
	}

	worldTime := localRec.Time / localLen
	if worldTime < tMin || worldTime >= rec.Time {
		*rec = worldRec
		return false
	}
	rec.Time = worldTime
	rec.Normal = t.toWorldNormal(localRec.Normal)
	return true
}

// BoundingBox transforms the shape's local bounding box corners into world
// space and rebuilds an axis-aligned box around them.
func (t *Transformed[T]) BoundingBox() core.AABB {
	local := t.shape.BoundingBox()
	corners := [8]core.Vec3{}
	i := 0
	for _, x := range [2]float64{local.Min.X, local.Max.X} {
		for _, y := range [2]float64{local.Min.Y, local.Max.Y} {
			for _, z := range [2]float64{local.Min.Z, local.Max.Z} {
				corners[i] = t.toWorldPoint(core.NewVec3(x, y, z))
				i++
			}
		}
	}
	return core.NewAABBFromPoints(corners[:]...)
}

// Sample back-transforms target into local space, samples the wrapped
// shape, forward-transforms the result, and rescales the PDF by the
// area-Jacobian determinant so the light-sampling math in pkg/light stays
// correct under scale and rotation.
func (t *Transformed[T]) Sample(target core.Vec3, rng *rand.Rand) (point, normal core.Vec3, pdf float64) {
	sampleable, ok := any(t.shape).(Sampleable)
	if !ok {
		return core.Vec3{}, core.Vec3{}, 0
	}
	localTarget := t.toLocal(target)
	localPoint, localNormal, localPDF := sampleable.Sample(localTarget, rng)
	if localPDF <= 0 {
		return core.Vec3{}, core.Vec3{}, 0
	}

	point = t.toWorldPoint(localPoint)
	normal = t.toWorldNormal(localNormal)

	worldNormalUnscaled := t.linear.Mul(localNormal)
	scale := absF(t.det) / worldNormalUnscaled.Length()
	if scale == 0 {
		return point, normal, 0
	}
	pdf = localPDF / scale
	return point, normal, pdf
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Package camera implements the thin-lens perspective camera: a look_at
// basis construction, a cast_ray mapping from normalized screen coordinates
// to world-space rays, and optional depth-of-field jitter.
package camera

import (
	"math"
	"math/rand"

	"github.com/arnegrid/photonforge/pkg/core"
)

// Camera is a thin-lens perspective camera. Aperture = 0 gives a pinhole
// camera (no depth-of-field blur).
type Camera struct {
	Eye            core.Vec3
	Direction      core.Vec3 // unit, forward
	Up             core.Vec3 // unit, orthogonal to Direction
	Right          core.Vec3 // unit, Direction x Up
	FOV            float64   // radians
	Aperture       float64
	FocalDistance  float64
}

// LookAt builds a camera at eye, facing center, with the given approximate
// up vector re-orthonormalized against the view direction.
func LookAt(eye, center, up core.Vec3, fov float64) Camera {
	direction := center.Subtract(eye).Normalize()
	right := direction.Cross(up).Normalize()
	trueUp := right.Cross(direction).Normalize()
	return Camera{
		Eye:           eye,
		Direction:     direction,
		Up:            trueUp,
		Right:         right,
		FOV:           fov,
		FocalDistance: 1,
	}
}

// Focus returns a copy of c with depth-of-field enabled: rays converge at
// focalPoint through a lens of the given aperture radius.
func (c Camera) Focus(focalPoint core.Vec3, aperture float64) Camera {
	c.FocalDistance = focalPoint.Subtract(c.Eye).Length()
	c.Aperture = aperture
	return c
}

// CastRay maps normalized screen coordinates x, y in [-1, 1] (x right, y up)
// to a world-space ray, applying depth-of-field lens jitter when Aperture>0.
func (c Camera) CastRay(x, y float64, rng *rand.Rand) core.Ray {
	d := 1.0 / math.Tan(c.FOV/2)
	dir := c.Direction.Multiply(d).Add(c.Right.Multiply(x)).Add(c.Up.Multiply(y)).Normalize()

	if c.Aperture <= 0 {
		return core.NewRay(c.Eye, dir)
	}

	focalPoint := c.Eye.Add(dir.Multiply(c.FocalDistance / dir.Dot(c.Direction)))

	lx, ly := core.RandomInUnitDisc(rng)
	lensOffset := c.Right.Multiply(lx * c.Aperture).Add(c.Up.Multiply(ly * c.Aperture))
	origin := c.Eye.Add(lensOffset)
	return core.NewRay(origin, focalPoint.Subtract(origin).Normalize())
}

package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnegrid/photonforge/pkg/core"
)

func TestLookAtBuildsOrthonormalBasis(t *testing.T) {
	c := LookAt(core.NewVec3(0, 0, 10), core.Vec3{}, core.NewVec3(0, 1, 0), math.Pi/3)

	assert.InDelta(t, 1.0, c.Direction.Length(), 1e-9)
	assert.InDelta(t, 1.0, c.Up.Length(), 1e-9)
	assert.InDelta(t, 1.0, c.Right.Length(), 1e-9)
	assert.InDelta(t, 0.0, c.Direction.Dot(c.Up), 1e-9)
	assert.InDelta(t, 0.0, c.Direction.Dot(c.Right), 1e-9)
	assert.InDelta(t, -1.0, c.Direction.Z, 1e-9) // looking from +Z toward origin points -Z
}

func TestCastRayCenterPointsAtDirection(t *testing.T) {
	c := LookAt(core.NewVec3(0, 0, 10), core.Vec3{}, core.NewVec3(0, 1, 0), math.Pi/3)
	ray := c.CastRay(0, 0, rand.New(rand.NewSource(1)))

	assert.Equal(t, c.Eye, ray.Origin)
	assert.InDelta(t, 0, ray.Direction.X, 1e-9)
	assert.InDelta(t, 0, ray.Direction.Y, 1e-9)
	assert.Less(t, ray.Direction.Z, 0.0)
}

func TestPinholeCameraIgnoresLensJitter(t *testing.T) {
	c := LookAt(core.NewVec3(0, 0, 10), core.Vec3{}, core.NewVec3(0, 1, 0), math.Pi/3)
	require.Zero(t, c.Aperture)

	rngA := rand.New(rand.NewSource(1))
	rngB := rand.New(rand.NewSource(2))
	a := c.CastRay(0.2, -0.1, rngA)
	b := c.CastRay(0.2, -0.1, rngB)
	assert.Equal(t, a, b)
}

func TestFocusEnablesDepthOfFieldJitter(t *testing.T) {
	c := LookAt(core.NewVec3(0, 0, 10), core.Vec3{}, core.NewVec3(0, 1, 0), math.Pi/3).
		Focus(core.Vec3{}, 1.0)
	require.Greater(t, c.Aperture, 0.0)

	rngA := rand.New(rand.NewSource(1))
	rngB := rand.New(rand.NewSource(2))
	a := c.CastRay(0, 0, rngA)
	b := c.CastRay(0, 0, rngB)
	assert.NotEqual(t, a.Origin, b.Origin)
}

package light

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnegrid/photonforge/pkg/core"
	"github.com/arnegrid/photonforge/pkg/geometry"
	"github.com/arnegrid/photonforge/pkg/material"
)

func TestAmbientIsUnconditionalAndUnshadowed(t *testing.T) {
	a := Ambient{Color: core.NewVec3(0.1, 0.2, 0.3)}
	require.True(t, a.IsAmbient())

	sample := a.Illuminate(core.NewVec3(5, 5, 5), rand.New(rand.NewSource(1)))
	assert.Equal(t, a.Color, sample.Intensity)
	assert.Zero(t, sample.Distance)
}

func TestPointLightInverseSquareFalloff(t *testing.T) {
	p := Point{Color: core.NewVec3(1, 1, 1), Position: core.NewVec3(0, 2, 0)}
	require.False(t, p.IsAmbient())

	sample := p.Illuminate(core.Vec3{}, rand.New(rand.NewSource(1)))
	assert.InDelta(t, 0.25, sample.Intensity.X, 1e-9) // 1/(2^2)
	assert.InDelta(t, 2.0, sample.Distance, 1e-9)
	assert.Equal(t, core.NewVec3(0, 1, 0), sample.Direction)
}

func TestPointLightAtShadingPointIsZero(t *testing.T) {
	p := Point{Color: core.NewVec3(1, 1, 1), Position: core.Vec3{}}
	sample := p.Illuminate(core.Vec3{}, rand.New(rand.NewSource(1)))
	assert.Equal(t, Sample{}, sample)
}

func TestDirectionalLightHasInfiniteDistanceAndFixedDirection(t *testing.T) {
	d := Directional{Color: core.NewVec3(1, 1, 1), Direction: core.NewVec3(0, -1, 0)}
	require.False(t, d.IsAmbient())

	sample := d.Illuminate(core.NewVec3(100, 100, 100), rand.New(rand.NewSource(1)))
	assert.True(t, math.IsInf(sample.Distance, 1))
	assert.Equal(t, core.NewVec3(0, 1, 0), sample.Direction)
}

func TestObjectLightFoldsEmittanceCosineAndPDF(t *testing.T) {
	sphere := geometry.NewSphere()
	mat := material.Light(core.NewVec3(1, 1, 1), 10)
	obj := Object{Shape: sphere, Material: mat}
	require.False(t, obj.IsAmbient())

	// A point far along +Y sees the top of the unit sphere predominantly;
	// sample repeatedly and require every non-degenerate sample to have a
	// positive intensity and a unit direction.
	rng := rand.New(rand.NewSource(7))
	sawPositive := false
	for i := 0; i < 200; i++ {
		sample := obj.Illuminate(core.NewVec3(0, 5, 0), rng)
		if sample.Intensity.IsZero() {
			continue
		}
		sawPositive = true
		assert.InDelta(t, 1.0, sample.Direction.Length(), 1e-9)
		assert.Greater(t, sample.Distance, 0.0)
	}
	assert.True(t, sawPositive)
}

package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnegrid/photonforge/pkg/core"
)

func TestAddSampleAndImageRoundTrip(t *testing.T) {
	b := New(2, 2, 0)
	white := core.Vec3{X: 1, Y: 1, Z: 1}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			b.AddSample(x, y, white)
		}
	}

	img := b.Image()
	r, g, bl, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), bl)
	assert.Equal(t, uint32(0xffff), a)
}

func TestAddSampleOutOfBoundsPanics(t *testing.T) {
	b := New(2, 2, 0)
	assert.Panics(t, func() { b.AddSample(5, 5, core.Vec3{}) })
}

func TestImagePanicsOnUnsampledPixel(t *testing.T) {
	b := New(2, 2, 0)
	b.AddSample(0, 0, core.Vec3{X: 1})
	assert.Panics(t, func() { b.Image() })
}

func TestFilterRadiusBorrowsNeighbors(t *testing.T) {
	b := New(3, 1, 1)
	b.AddSample(0, 0, core.Vec3{})
	b.AddSample(1, 0, core.Vec3{X: 1, Y: 1, Z: 1})
	b.AddSample(2, 0, core.Vec3{})

	img := b.Image()
	rCenter, _, _, _ := img.At(1, 0).RGBA()
	rEdge, _, _, _ := img.At(0, 0).RGBA()
	require.Greater(t, rEdge, uint32(0))
	// The edge pixel averages two pixels (one lit, mean 1/2); the center
	// averages three (one lit, mean 1/3).
	require.Greater(t, rEdge, rCenter)
}

func TestVarianceZeroForConstantSamples(t *testing.T) {
	b := New(1, 1, 0)
	for i := 0; i < 10; i++ {
		b.AddSample(0, 0, core.Vec3{X: 0.5, Y: 0.5, Z: 0.5})
	}
	assert.InDelta(t, 0, b.Variance(), 1e-9)
}

func TestVariancePositiveForNoisySamples(t *testing.T) {
	b := New(1, 1, 0)
	b.AddSample(0, 0, core.Vec3{X: 0})
	b.AddSample(0, 0, core.Vec3{X: 1})
	b.AddSample(0, 0, core.Vec3{X: 0})
	b.AddSample(0, 0, core.Vec3{X: 1})
	assert.Greater(t, b.Variance(), 0.0)
}

func TestVarianceZeroWhenNoSamples(t *testing.T) {
	b := New(4, 4, 1)
	assert.Equal(t, 0.0, b.Variance())
}

func TestSampleCount(t *testing.T) {
	b := New(2, 2, 0)
	b.AddSample(1, 1, core.Vec3{})
	b.AddSample(1, 1, core.Vec3{})
	assert.Equal(t, 2, b.SampleCount(1, 1))
	assert.Equal(t, 0, b.SampleCount(0, 0))
}

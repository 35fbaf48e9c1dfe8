package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnegrid/photonforge/pkg/core"
	"github.com/arnegrid/photonforge/pkg/geometry"
	"github.com/arnegrid/photonforge/pkg/light"
	"github.com/arnegrid/photonforge/pkg/material"
)

func TestNewSceneIsEmptyWithBlackEnvironment(t *testing.T) {
	s := New()
	assert.Empty(t, s.Objects)
	assert.Empty(t, s.Lights)
	assert.Equal(t, core.Vec3{}, s.Environment.Color(core.NewVec3(0, 1, 0)))
}

func TestIntersectFindsClosestObject(t *testing.T) {
	s := New()
	far := geometry.NewTransformed(geometry.NewSphere()).Translate(core.NewVec3(0, 0, -10))
	near := geometry.NewTransformed(geometry.NewSphere()).Translate(core.NewVec3(0, 0, -3))
	s.Add(far, material.Diffuse(core.NewVec3(1, 0, 0)))
	s.Add(near, material.Diffuse(core.NewVec3(0, 1, 0)))

	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	hit, ok := s.Intersect(ray, 1e-9)
	require.True(t, ok)
	assert.InDelta(t, 2.0, hit.Record.Time, 1e-9)
	assert.Equal(t, core.NewVec3(0, 1, 0), hit.Material.Color)
}

func TestIntersectMissReportsFalse(t *testing.T) {
	s := New()
	_, ok := s.Intersect(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), 1e-9)
	assert.False(t, ok)
}

func TestOccludedRespectsMaxDistance(t *testing.T) {
	s := New()
	s.Add(geometry.NewTransformed(geometry.NewSphere()).Translate(core.NewVec3(0, 0, -5)), material.Diffuse(core.NewVec3(1, 1, 1)))

	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	assert.True(t, s.Occluded(ray, 1e-9, 100))
	assert.False(t, s.Occluded(ray, 1e-9, 2)) // blocker is beyond maxDistance
}

func TestOccludedWithInfiniteDistanceIsFalseOnMiss(t *testing.T) {
	s := New()
	ray := core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0))
	assert.False(t, s.Occluded(ray, 1e-9, math.Inf(1)))
}

func TestAddLightAppends(t *testing.T) {
	s := New()
	s.AddLight(light.Point{Color: core.NewVec3(1, 1, 1), Position: core.NewVec3(0, 5, 0)})
	require.Len(t, s.Lights, 1)
}

// Package light implements the renderer's four light variants (ambient,
// point, directional, and arbitrary-shape area light) behind one unified
// Illuminate interface, following original_source/src/light.rs.
package light

import (
	"math"
	"math/rand"

	"github.com/arnegrid/photonforge/pkg/core"
	"github.com/arnegrid/photonforge/pkg/geometry"
	"github.com/arnegrid/photonforge/pkg/material"
)

// Sample is what Illuminate returns: the light's contributed intensity, the
// unit direction from the shading point toward the light, and the distance
// to travel before a shadow ray should be considered unoccluded.
//
// Ambient lights set Distance to 0 (never shadow-tested; the renderer must
// add their contribution unconditionally). Directional lights set Distance
// to +Inf: the renderer's occlusion test ("occluded iff a hit exists with
// hit.Time < Distance") is then false whenever no hit occurred, regardless
// of how large Distance is, which is exactly the "unoccluded iff no hit"
// contract this module commits to for infinite-distance lights.
type Sample struct {
	Intensity core.Vec3
	Direction core.Vec3
	Distance  float64
}

// Light is implemented by every light variant.
type Light interface {
	Illuminate(point core.Vec3, rng *rand.Rand) Sample
	// IsAmbient reports whether this light should be added unconditionally
	// (no shadow ray, no direction/distance semantics).
	IsAmbient() bool
}

// Ambient is a constant, unshadowed contribution added at every hit.
type Ambient struct {
	Color core.Vec3
}

func (a Ambient) Illuminate(point core.Vec3, rng *rand.Rand) Sample {
	return Sample{Intensity: a.Color}
}

func (a Ambient) IsAmbient() bool { return true }

// Point is an inverse-square point light.
type Point struct {
	Color    core.Vec3
	Position core.Vec3
}

func (p Point) Illuminate(point core.Vec3, rng *rand.Rand) Sample {
	toLight := p.Position.Subtract(point)
	dist := toLight.Length()
	if dist == 0 {
		return Sample{}
	}
	return Sample{
		Intensity: p.Color.Multiply(1 / (dist * dist)),
		Direction: toLight.Multiply(1 / dist),
		Distance:  dist,
	}
}

func (p Point) IsAmbient() bool { return false }

// Directional is a constant-intensity light arriving from a fixed direction
// at infinite distance (e.g. sunlight).
type Directional struct {
	Color     core.Vec3
	Direction core.Vec3 // the direction the light travels, not toward the light
}

func (d Directional) Illuminate(point core.Vec3, rng *rand.Rand) Sample {
	return Sample{
		Intensity: d.Color,
		Direction: d.Direction.Normalize().Negate(),
		Distance:  math.Inf(1),
	}
}

func (d Directional) IsAmbient() bool { return false }

// Object treats an emissive shape as an area light: it is sampled like any
// other Sampleable shape, and its contribution folds the shape's emittance,
// the sampled point's cosine term, and the sampling PDF into one intensity
// value per spec.md §4.6.
type Object struct {
	Shape    geometry.Sampleable
	Material material.Material
}

func (o Object) Illuminate(point core.Vec3, rng *rand.Rand) Sample {
	samplePoint, sampleNormal, pdf := o.Shape.Sample(point, rng)
	if pdf <= 0 {
		return Sample{}
	}

	toLight := samplePoint.Subtract(point)
	dist := toLight.Length()
	if dist == 0 {
		return Sample{}
	}
	dir := toLight.Multiply(1 / dist)

	cosTheta := math.Max(0, sampleNormal.Dot(dir.Negate()))
	if cosTheta == 0 {
		return Sample{}
	}

	solidAnglePDF := pdf * dist * dist / cosTheta
	if solidAnglePDF <= 0 {
		return Sample{}
	}

	intensity := o.Material.Color.Multiply(o.Material.Emittance / solidAnglePDF)
	return Sample{Intensity: intensity, Direction: dir, Distance: dist}
}

func (o Object) IsAmbient() bool { return false }

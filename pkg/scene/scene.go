// Package scene ties together objects, lights, and an environment into a
// renderable scene, and provides both a programmatic builder API and a
// declarative YAML loader for describing one.
package scene

import (
	"github.com/arnegrid/photonforge/pkg/core"
	"github.com/arnegrid/photonforge/pkg/geometry"
	"github.com/arnegrid/photonforge/pkg/light"
	"github.com/arnegrid/photonforge/pkg/material"
)

// Object pairs a shape with the material it's rendered with.
type Object struct {
	Shape    geometry.Shape
	Material material.Material
}

// Scene is a flat collection of objects and lights plus a background
// environment. Objects are intersected by a linear scan: shapes with
// infinite extent (Plane) cannot share a single spatial acceleration
// structure with finite ones, and meshes already carry their own KD-tree, so
// there is no second tier of acceleration across objects.
type Scene struct {
	Objects     []Object
	Lights      []light.Light
	Environment Environment
}

// New returns an empty scene with a black solid-color environment.
func New() *Scene {
	return &Scene{Environment: SolidEnvironment(core.Vec3{})}
}

// Add appends an object to the scene and returns the scene for chaining.
func (s *Scene) Add(shape geometry.Shape, mat material.Material) *Scene {
	s.Objects = append(s.Objects, Object{Shape: shape, Material: mat})
	return s
}

// AddLight appends a light to the scene and returns the scene for chaining.
func (s *Scene) AddLight(l light.Light) *Scene {
	s.Lights = append(s.Lights, l)
	return s
}

// Hit is the result of a scene-wide closest-hit query.
type Hit struct {
	Record   geometry.HitRecord
	Material material.Material
}

// Intersect scans every object in the scene and returns the closest hit, if
// any, at t in [tMin, +Inf).
func (s *Scene) Intersect(ray core.Ray, tMin float64) (Hit, bool) {
	rec := geometry.NewHitRecord()
	var mat material.Material
	hitAny := false

	for _, obj := range s.Objects {
		if obj.Shape.Intersect(ray, tMin, &rec) {
			hitAny = true
			mat = obj.Material
		}
	}

	if !hitAny {
		return Hit{}, false
	}
	return Hit{Record: rec, Material: mat}, true
}

// Occluded reports whether any object blocks the segment from the ray's
// origin toward maxDistance. maxDistance may be +Inf (directional lights);
// a ray that simply never hits anything is never occluded, regardless of
// how large maxDistance is — there is no numeric comparison against
// infinity beyond the hit-time check itself.
func (s *Scene) Occluded(ray core.Ray, tMin, maxDistance float64) bool {
	rec := geometry.NewHitRecord()
	for _, obj := range s.Objects {
		if obj.Shape.Intersect(ray, tMin, &rec) && rec.Time < maxDistance {
			return true
		}
	}
	return false
}

package scene

import (
	"math"

	"github.com/arnegrid/photonforge/pkg/camera"
	"github.com/arnegrid/photonforge/pkg/core"
	"github.com/arnegrid/photonforge/pkg/geometry"
	"github.com/arnegrid/photonforge/pkg/light"
	"github.com/arnegrid/photonforge/pkg/material"
)

// mustHex parses a hex color, panicking on malformed input; only ever called
// with string literals below, so a parse failure indicates a typo in this
// file, not a runtime condition callers need to handle.
func mustHex(hex string) core.Vec3 {
	c, err := core.HexColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// polygon triangulates a planar, convex vertex fan into a Mesh, the way
// original_source/examples/photon_map.rs's `polygon` helper builds the
// Cornell box's walls, floor, ceiling, and light rectangle from 4 corners.
func polygon(vertices ...core.Vec3) *geometry.Mesh {
	triangles := make([]geometry.Triangle, 0, len(vertices)-2)
	for i := 1; i < len(vertices)-1; i++ {
		triangles = append(triangles, geometry.NewTriangleFromVertices(vertices[0], vertices[i], vertices[i+1]))
	}
	return geometry.NewMesh(triangles)
}

// DefaultScene returns an empty scene with a black background, used for
// smoke-testing a renderer configuration with nothing to hit.
func DefaultScene() (*Scene, camera.Camera) {
	s := New()
	cam := camera.LookAt(core.NewVec3(0, 0, 5), core.Vec3{}, core.NewVec3(0, 1, 0), math.Pi/3)
	return s, cam
}

// SingleSphereScene returns a unit diffuse-red sphere lit by one point
// light, the scenario spec.md §8's second end-to-end example exercises.
func SingleSphereScene() (*Scene, camera.Camera) {
	s := New()
	s.Add(geometry.NewSphere(), material.Diffuse(core.NewVec3(1, 0, 0)))
	s.AddLight(light.Point{Color: core.NewVec3(100, 100, 100), Position: core.NewVec3(0, 10, 0)})
	cam := camera.LookAt(core.NewVec3(0, 0, 10), core.Vec3{}, core.NewVec3(0, 1, 0), math.Pi/6)
	return s, cam
}

// CornellBox returns the standard Cornell box test scene (dimensions and
// material/light placement from the Cornell reference data, following
// original_source/examples/photon_map.rs's construction of it), suitable for
// exercising both the path tracer and PhotonMapRender.
func CornellBox() (*Scene, camera.Camera) {
	s := New()

	white := material.Diffuse(mustHex("AAAAAA"))
	red := material.Diffuse(mustHex("BC0000"))
	green := material.Diffuse(mustHex("00BC00"))
	lightMat := material.Light(mustHex("FFFEFA"), 100)

	floor := polygon(
		core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 559.2),
		core.NewVec3(556, 0, 559.2), core.NewVec3(556, 0, 0),
	)
	ceiling := polygon(
		core.NewVec3(0, 548.9, 0), core.NewVec3(556, 548.9, 0),
		core.NewVec3(556, 548.9, 559.2), core.NewVec3(0, 548.9, 559.2),
	)
	lightRect := polygon(
		core.NewVec3(343, 548.8, 227), core.NewVec3(343, 548.8, 332),
		core.NewVec3(213, 548.8, 332), core.NewVec3(213, 548.8, 227),
	)
	backWall := polygon(
		core.NewVec3(0, 0, 559.2), core.NewVec3(0, 548.9, 559.2),
		core.NewVec3(556, 548.9, 559.2), core.NewVec3(556, 0, 559.2),
	)
	rightWall := polygon(
		core.NewVec3(0, 0, 0), core.NewVec3(0, 548.9, 0),
		core.NewVec3(0, 548.9, 559.2), core.NewVec3(0, 0, 559.2),
	)
	leftWall := polygon(
		core.NewVec3(556, 0, 0), core.NewVec3(556, 0, 559.2),
		core.NewVec3(556, 548.9, 559.2), core.NewVec3(556, 548.9, 0),
	)

	largeBox := geometry.NewTransformed(geometry.NewCube()).
		Scale(165, 330, 165).
		RotateY(2 * math.Pi * (-253.0 / 360.0)).
		Translate(core.NewVec3(368, 165, 351))
	smallBox := geometry.NewTransformed(geometry.NewCube()).
		Scale(165, 165, 165).
		RotateY(2 * math.Pi * (-197.0 / 360.0)).
		Translate(core.NewVec3(185, 82.5, 169))

	s.Add(floor, white)
	s.Add(ceiling, white)
	s.Add(backWall, white)
	s.Add(leftWall, red)
	s.Add(rightWall, green)
	s.Add(largeBox, white)
	s.Add(smallBox, white)
	s.Add(lightRect, lightMat)
	s.AddLight(light.Object{Shape: lightRect, Material: lightMat})

	cam := camera.LookAt(
		core.NewVec3(278, 273, -800),
		core.NewVec3(278, 273, 0),
		core.NewVec3(0, 1, 0),
		0.686,
	)
	return s, cam
}

// CausticGlassScene drops a smooth glass sphere in the middle of the Cornell
// box in place of the two boxes, the SPEC_FULL.md-supplemented scenario for
// exercising PhotonMapRender's caustic-forming specular transmission path
// (a feature the plain path tracer can only reach through high-variance
// BSDF sampling).
func CausticGlassScene() (*Scene, camera.Camera) {
	s, cam := CornellBox()
	s.Objects = s.Objects[:len(s.Objects)-3] // drop the two boxes and the light rect
	lightMat := material.Light(mustHex("FFFEFA"), 100)
	lightRect := polygon(
		core.NewVec3(343, 548.8, 227), core.NewVec3(343, 548.8, 332),
		core.NewVec3(213, 548.8, 332), core.NewVec3(213, 548.8, 227),
	)
	s.Add(lightRect, lightMat)
	s.Lights = nil
	s.AddLight(light.Object{Shape: lightRect, Material: lightMat})

	glass := geometry.NewTransformed(geometry.NewSphere()).
		Scale(90, 90, 90).
		Translate(core.NewVec3(278, 90, 280))
	s.Add(glass, material.Clear(1.5, 0.02))

	return s, cam
}

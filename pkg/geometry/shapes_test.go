package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/arnegrid/photonforge/pkg/core"
)

func TestSphereIntersectStaysOnUnitSphere(t *testing.T) {
	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)),
		core.NewRay(core.NewVec3(3, 0, 0), core.NewVec3(-1, 0, 0)),
		core.NewRay(core.NewVec3(1, 1, 5), core.NewVec3(0, 0, -1).Normalize()),
	}
	s := NewSphere()
	for _, ray := range rays {
		rec := NewHitRecord()
		if !s.Intersect(ray, 1e-12, &rec) {
			continue
		}
		if rec.Time <= 0 {
			t.Errorf("expected positive hit time, got %v", rec.Time)
		}
		p := ray.At(rec.Time)
		if math.Abs(p.Length()-1) > 1e-9 {
			t.Errorf("hit point %v not on unit sphere (len=%v)", p, p.Length())
		}
		if math.Abs(rec.Normal.Length()-1) > 1e-9 {
			t.Errorf("normal %v not unit length", rec.Normal)
		}
	}
}

func TestCubeIntersectExactScenario(t *testing.T) {
	c := NewCube()
	ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))
	rec := NewHitRecord()
	if !c.Intersect(ray, 1e-12, &rec) {
		t.Fatal("expected hit")
	}
	if math.Abs(rec.Time-9.5) > 1e-9 {
		t.Errorf("time = %v, want 9.5", rec.Time)
	}
	if !rec.Normal.Equals(core.NewVec3(0, 0, 1)) {
		t.Errorf("normal = %v, want (0,0,1)", rec.Normal)
	}
}

func TestPlaneIntersectExactScenario(t *testing.T) {
	p := NewPlane(core.NewVec3(0, 1, 0), -1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))
	rec := NewHitRecord()
	if !p.Intersect(ray, 1e-12, &rec) {
		t.Fatal("expected hit")
	}
	if math.Abs(rec.Time-1) > 1e-9 {
		t.Errorf("time = %v, want 1", rec.Time)
	}
	if !rec.Normal.Equals(core.NewVec3(0, 1, 0)) {
		t.Errorf("normal = %v, want (0,1,0)", rec.Normal)
	}
}

func TestMonomialSurfaceRejectsNonFourExponent(t *testing.T) {
	if _, err := NewMonomialSurface(2, 3); err == nil {
		t.Error("expected error for exp != 4")
	}
	if _, err := NewMonomialSurface(2, 4); err != nil {
		t.Errorf("unexpected error for exp=4: %v", err)
	}
}

func TestMonomialSurfaceClosestPoint(t *testing.T) {
	surf, err := NewMonomialSurface(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	p, ok := surf.ClosestPoint(core.NewVec3(0.5, 2, 0))
	if !ok {
		t.Fatal("expected a closest point within the unit disc")
	}
	if math.Abs(p.X-0.5) > 0.05 {
		t.Errorf("closest point x=%v too far from input x=0.5", p.X)
	}
}

func TestTriangleIntersectBasic(t *testing.T) {
	tri := NewTriangleFromVertices(
		core.NewVec3(-1, 0, -1),
		core.NewVec3(1, 0, -1),
		core.NewVec3(0, 0, 1),
	)
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	rec := NewHitRecord()
	if !tri.Intersect(ray, 1e-12, &rec) {
		t.Fatal("expected hit through triangle interior")
	}
	if math.Abs(rec.Time-5) > 1e-9 {
		t.Errorf("time = %v, want 5", rec.Time)
	}

	missRay := core.NewRay(core.NewVec3(5, 5, 5), core.NewVec3(0, -1, 0))
	missRec := NewHitRecord()
	if tri.Intersect(missRay, 1e-12, &missRec) {
		t.Error("expected miss outside triangle")
	}
}

func TestKDTreeMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var triangles []Triangle
	for i := 0; i < 200; i++ {
		base := core.NewVec3(rng.Float64()*20-10, rng.Float64()*20-10, rng.Float64()*20-10)
		triangles = append(triangles, NewTriangleFromVertices(
			base,
			base.Add(core.NewVec3(1, 0, 0)),
			base.Add(core.NewVec3(0, 1, 0)),
		))
	}
	tree := NewKDTree(triangles)

	for i := 0; i < 50; i++ {
		origin := core.NewVec3(rng.Float64()*30-15, rng.Float64()*30-15, rng.Float64()*30-15)
		dir := core.NewVec3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1).Normalize()
		ray := core.NewRay(origin, dir)

		bruteRec := NewHitRecord()
		for _, tri := range triangles {
			tri.Intersect(ray, 1e-9, &bruteRec)
		}

		treeRec := NewHitRecord()
		tree.Intersect(ray, 1e-9, &treeRec)

		if math.IsInf(bruteRec.Time, 1) != math.IsInf(treeRec.Time, 1) {
			t.Fatalf("hit mismatch: brute=%v tree=%v", bruteRec.Time, treeRec.Time)
		}
		if !math.IsInf(bruteRec.Time, 1) && math.Abs(bruteRec.Time-treeRec.Time) > 1e-6 {
			t.Errorf("time mismatch: brute=%v tree=%v", bruteRec.Time, treeRec.Time)
		}
	}
}

func TestTransformedScaleRoundTrip(t *testing.T) {
	base := NewTransformed[Sphere](NewSphere())
	scaled := base.Scale(2, 2, 2).Scale(0.5, 0.5, 0.5)

	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))

	recBase := NewHitRecord()
	base.Intersect(ray, 1e-9, &recBase)

	recScaled := NewHitRecord()
	scaled.Intersect(ray, 1e-9, &recScaled)

	if math.Abs(recBase.Time-recScaled.Time) > 1e-6 {
		t.Errorf("scale().scale(1/s) changed hit time: %v vs %v", recBase.Time, recScaled.Time)
	}
}

func TestTransformedTranslateCube(t *testing.T) {
	cube := NewTransformed[Cube](NewCube()).Translate(core.NewVec3(0, 0, -5))
	ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))
	rec := NewHitRecord()
	if !cube.Intersect(ray, 1e-9, &rec) {
		t.Fatal("expected hit on translated cube")
	}
	if math.Abs(rec.Time-14.5) > 1e-6 {
		t.Errorf("time = %v, want 14.5", rec.Time)
	}
}

package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/arnegrid/photonforge/pkg/core"
)

func randomHemisphereDir(rng *rand.Rand) core.Vec3 {
	z := rng.Float64()
	r := math.Sqrt(1 - z*z)
	phi := 2 * math.Pi * rng.Float64()
	return core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

func TestBSDFNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := core.NewVec3(0, 0, 1)
	mats := []Material{
		Diffuse(core.NewVec3(0.8, 0.2, 0.2)),
		Specular(core.NewVec3(1, 1, 1), 0.3),
		Metallic(core.NewVec3(0.9, 0.7, 0.3), 0.2),
	}
	for _, m := range mats {
		for i := 0; i < 200; i++ {
			wo := randomHemisphereDir(rng)
			wi := randomHemisphereDir(rng)
			c := m.BSDF(n, wo, wi)
			if c.X < -1e-9 || c.Y < -1e-9 || c.Z < -1e-9 {
				t.Fatalf("negative BSDF value %v for wo=%v wi=%v", c, wo, wi)
			}
		}
	}
}

func TestBSDFReciprocity(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	n := core.NewVec3(0, 0, 1)
	m := Specular(core.NewVec3(1, 1, 1), 0.4)

	for i := 0; i < 50; i++ {
		wo := randomHemisphereDir(rng)
		wi := randomHemisphereDir(rng)

		lhs := m.BSDF(n, wo, wi).Multiply(n.Dot(wi))
		rhs := m.BSDF(n, wi, wo).Multiply(n.Dot(wo))

		if math.Abs(lhs.X-rhs.X) > 1e-6 || math.Abs(lhs.Y-rhs.Y) > 1e-6 || math.Abs(lhs.Z-rhs.Z) > 1e-6 {
			t.Errorf("reciprocity violated: wo=%v wi=%v lhs=%v rhs=%v", wo, wi, lhs, rhs)
		}
	}
}

func TestSampleFProducesUsableDirections(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := core.NewVec3(0, 0, 1)
	m := Diffuse(core.NewVec3(0.5, 0.5, 0.5))

	hits := 0
	for i := 0; i < 500; i++ {
		wo := randomHemisphereDir(rng)
		res, ok := m.SampleF(n, wo, rng)
		if !ok {
			continue
		}
		hits++
		if res.PDF <= 0 {
			t.Errorf("sampled direction has non-positive PDF: %v", res.PDF)
		}
	}
	if hits == 0 {
		t.Fatal("expected at least some successful samples")
	}
}

func TestSampleFTransparentReachesReflectionAndTransmission(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	n := core.NewVec3(0, 0, 1)
	m := Clear(1.5, 0.1)
	wo := core.NewVec3(0, 0, 1)

	sameSide, oppositeSide := 0, 0
	for i := 0; i < 2000; i++ {
		res, ok := m.SampleF(n, wo, rng)
		if !ok {
			continue
		}
		if n.Dot(res.Wi) > 0 {
			sameSide++
		} else {
			oppositeSide++
		}
	}
	if sameSide == 0 {
		t.Fatal("expected some specular-reflection samples for a transparent material, got none")
	}
	if oppositeSide == 0 {
		t.Fatal("expected some transmitted samples for a transparent material, got none")
	}
}

// Package material implements the Cook-Torrance microfacet BSDF (Beckmann
// distribution, Schlick Fresnel, geometric shadowing, Lambert diffuse, and
// rough dielectric transmission) and its matched importance sampler.
package material

import (
	"math"
	"math/rand"

	"github.com/arnegrid/photonforge/pkg/core"
)

// Material holds the PBR parameters of a single surface. There is one
// Material type, not an interface per behavior: diffuse, specular, metallic,
// and transparent surfaces are all points in this one parameter space,
// following original_source/src/material.rs.
type Material struct {
	Color       core.Vec3 // linear RGB albedo
	Index       float64   // index of refraction, eta >= 1
	Roughness   float64   // Beckmann roughness m in (0,1]
	Metallic    float64   // metallic weight in [0,1]
	Emittance   float64   // emitted radiance scale, >= 0
	Transparent bool      // whether transmission is enabled
}

// Diffuse returns a rough (roughness 1) dielectric dominated by its Lambertian
// lobe; BSDF still adds its weak Fresnel-weighted specular lobe (index 1.5).
func Diffuse(color core.Vec3) Material {
	return Material{Color: color, Index: 1.5, Roughness: 1, Metallic: 0}
}

// Specular returns a rough dielectric reflector with the given roughness.
func Specular(color core.Vec3, roughness float64) Material {
	return Material{Color: color, Index: 1.5, Roughness: roughness, Metallic: 0}
}

// Clear returns a smooth transparent dielectric with the given index of
// refraction and roughness.
func Clear(index, roughness float64) Material {
	return Material{Color: core.NewVec3(1, 1, 1), Index: index, Roughness: roughness, Transparent: true}
}

// TransparentTinted returns a tinted transparent dielectric (spec.md's
// `transparent(color, eta, roughness)` factory).
func TransparentTinted(color core.Vec3, index, roughness float64) Material {
	return Material{Color: color, Index: index, Roughness: roughness, Transparent: true}
}

// Metallic returns a metallic reflector; metallic materials tint their
// specular reflectance by Color instead of reflecting white light.
func Metallic(color core.Vec3, roughness float64) Material {
	return Material{Color: color, Index: 1.5, Roughness: roughness, Metallic: 1}
}

// Light returns an emissive material that reflects like Diffuse (a diffuse
// lobe plus a weak specular lobe) (emittance drives §4.6's object-area-light
// formula; reflectance still applies if the light is also hit directly by
// an indirect bounce).
func Light(color core.Vec3, emittance float64) Material {
	return Material{Color: color, Index: 1.5, Roughness: 1, Emittance: emittance}
}

func schlickF0(index float64) float64 {
	f0 := (index - 1) / (index + 1)
	return f0 * f0
}

// BSDF evaluates the material's scattering distribution for surface normal n
// and unit directions wo (toward the viewer) and wi (toward the incident
// ray), both measured outward from the surface.
func (m Material) BSDF(n, wo, wi core.Vec3) core.Vec3 {
	wiOut := n.Dot(wi) > 0
	woOut := n.Dot(wo) > 0

	if wiOut == woOut {
		return m.sameSideBSDF(n, wo, wi)
	}
	if !m.Transparent {
		return core.Vec3{}
	}
	return m.transmitBSDF(n, wo, wi)
}

func (m Material) sameSideBSDF(n, wo, wi core.Vec3) core.Vec3 {
	h := wi.Add(wo).Normalize()
	nh := n.Dot(h)
	if nh <= 0 {
		return core.Vec3{}
	}

	d := beckmannD(nh, m.Roughness)
	f := m.fresnel(wo, h)
	g := geometricTerm(n, wo, wi, h)

	nwo := n.Dot(wo)
	nwi := n.Dot(wi)
	if nwo <= 0 || nwi <= 0 {
		return core.Vec3{}
	}

	specular := f.Multiply(d * g / (4 * nwo * nwi))

	if m.Transparent {
		return specular
	}

	diffuse := core.NewVec3(1, 1, 1).Subtract(f).MultiplyVec(m.Color).Multiply(1 / math.Pi)
	return specular.Add(diffuse)
}

func (m Material) transmitBSDF(n, wo, wi core.Vec3) core.Vec3 {
	etaT := m.Index
	if n.Dot(wo) < 0 {
		etaT = 1 / m.Index
	}

	h := wi.Multiply(etaT).Add(wo).Normalize()
	if h.Dot(n) < 0 {
		h = h.Negate()
	}

	d := beckmannD(n.AbsDot(h), m.Roughness)
	g := geometricTerm(n, wo, wi, h)
	f := m.fresnelScalar(math.Abs(wi.Dot(h)))

	whi := wi.Dot(h)
	who := wo.Dot(h)
	denom := etaT*whi + who
	if denom == 0 {
		return core.Vec3{}
	}

	scale := math.Abs(whi) * math.Abs(who) * d * (1 - f) * g / (denom * denom * n.AbsDot(wi) * n.AbsDot(wo))
	return m.Color.Multiply(scale)
}

func beckmannD(nh, m float64) float64 {
	if nh <= 0 {
		return 0
	}
	m2 := m * m
	nh2 := nh * nh
	return math.Exp((nh2-1)/(m2*nh2)) / (math.Pi * m2 * nh2 * nh2)
}

func geometricTerm(n, wo, wi, h core.Vec3) float64 {
	nh := n.AbsDot(h)
	nwo := n.AbsDot(wo)
	nwi := n.AbsDot(wi)
	woh := wo.AbsDot(h)
	if woh == 0 {
		return 0
	}
	return math.Min(1, 2*nh*math.Min(nwi, nwo)/woh)
}

// fresnel blends Schlick's F0 toward the albedo by Metallic, then adds the
// Schlick power term. Its total-internal-reflection branch (full reflectance
// when wo·h < 0) is never taken from sameSideBSDF: that caller returns zero
// before reaching fresnel when both directions lie below n, and otherwise
// passes the half vector of wo and wi, for which wo·h >= 0. Reflection from
// inside a transparent surface therefore contributes nothing.
func (m Material) fresnel(wo, h core.Vec3) core.Vec3 {
	f0 := schlickF0(m.Index)
	base := core.NewVec3(f0, f0, f0).Lerp(m.Color, m.Metallic)

	woh := wo.Dot(h)
	if n := wo; n.Dot(h) < 0 {
		sinT := math.Sqrt(math.Max(0, 1-woh*woh)) * m.Index
		if sinT > 1 {
			return core.NewVec3(1, 1, 1)
		}
	}

	power := math.Pow(1-math.Abs(woh), 5)
	return base.Add(core.NewVec3(1, 1, 1).Subtract(base).Multiply(power))
}

func (m Material) fresnelScalar(cosTheta float64) float64 {
	f0 := schlickF0(m.Index)
	return f0 + (1-f0)*math.Pow(1-cosTheta, 5)
}

// specularWeight is the probability with which SampleF follows the
// specular-reflection lobe; the remaining 1-f goes to the diffuse lobe, or to
// the transmission lobe for transparent materials. It is the channel mean of
// the Schlick base reflectance blended toward Color by Metallic, floored at
// 0.2 to avoid starving the specular lobe of samples on low-IOR dielectrics.
func (m Material) specularWeight() float64 {
	f0 := schlickF0(m.Index)
	base := core.NewVec3(f0, f0, f0).Lerp(m.Color, m.Metallic)
	mean := (base.X + base.Y + base.Z) / 3
	return math.Max(0.2, math.Min(1, mean))
}

// SampleResult is returned by SampleF: a sampled incident direction and its
// combined PDF across all active lobes. SampleF's boolean result reports
// whether sampling succeeded (it fails on total internal reflection or a
// degenerate PDF).
type SampleResult struct {
	Wi  core.Vec3
	PDF float64
}

// SampleF importance-samples a continuation direction wi given outgoing
// direction wo at normal n, following the specular/diffuse/transmitted
// branch selection of original_source/src/material.rs and spec.md §4.4.
func (m Material) SampleF(n, wo core.Vec3, rng *rand.Rand) (SampleResult, bool) {
	f := m.specularWeight()

	if rng.Float64() < f {
		return m.sampleSpecular(n, wo, rng)
	}
	if m.Transparent {
		return m.sampleTransmit(n, wo, rng)
	}
	return m.sampleDiffuse(n, wo, rng)
}

func (m Material) sampleSpecular(n, wo core.Vec3, rng *rand.Rand) (SampleResult, bool) {
	h := core.SampleBeckmannHalfVector(n, m.Roughness, rng)
	wi := wo.Reflect(h)
	if n.Dot(wi) <= 0 {
		return SampleResult{}, false
	}
	pdf := m.pdf(n, wo, wi)
	if pdf <= 0 {
		return SampleResult{}, false
	}
	return SampleResult{Wi: wi, PDF: pdf}, true
}

func (m Material) sampleDiffuse(n, wo core.Vec3, rng *rand.Rand) (SampleResult, bool) {
	wi := core.RandomCosineDirection(n, rng)
	pdf := m.pdf(n, wo, wi)
	if pdf <= 0 {
		return SampleResult{}, false
	}
	return SampleResult{Wi: wi, PDF: pdf}, true
}

func (m Material) sampleTransmit(n, wo core.Vec3, rng *rand.Rand) (SampleResult, bool) {
	h := core.SampleBeckmannHalfVector(n, m.Roughness, rng)
	woOut := n.Dot(wo) > 0
	etaT := m.Index
	if !woOut {
		etaT = 1 / m.Index
	}
	if n.Dot(wo) < 0 {
		h = h.Negate()
	}

	cosI := wo.Dot(h)
	// Snell's law uses the ratio of the index on wo's side to the index on
	// wi's side, which is 1/etaT.
	eta := 1 / etaT
	sin2T := (1 - cosI*cosI) * eta * eta
	if sin2T > 1 {
		return SampleResult{}, false // total internal reflection
	}
	cosT := math.Sqrt(1 - sin2T)
	if cosI < 0 {
		cosT = -cosT
	}
	wi := h.Multiply(eta*cosI - cosT).Subtract(wo.Multiply(eta))
	wi = wi.Normalize()

	pdf := m.pdf(n, wo, wi)
	if pdf <= 0 {
		return SampleResult{}, false
	}
	return SampleResult{Wi: wi, PDF: pdf}, true
}

// pdf computes the combined PDF of wi given wo, summing the specular,
// diffuse, and transmitted lobe densities that are active for m.
func (m Material) pdf(n, wo, wi core.Vec3) float64 {
	wiOut := n.Dot(wi) > 0
	woOut := n.Dot(wo) > 0
	f := m.specularWeight()

	if wiOut == woOut {
		h := wi.Add(wo).Normalize()
		hw := h.AbsDot(wo)
		if hw == 0 {
			return 0
		}
		specPDF := beckmannD(n.AbsDot(h), m.Roughness) * n.AbsDot(h) / (4 * hw)

		specWeight := f
		if m.Transparent {
			return specPDF * specWeight
		}
		cosTheta := math.Max(0, n.Dot(wi))
		diffPDF := cosTheta / math.Pi
		return specPDF*specWeight + diffPDF*(1-specWeight)
	}

	if !m.Transparent {
		return 0
	}
	etaT := m.Index
	if !woOut {
		etaT = 1 / m.Index
	}
	h := wi.Multiply(etaT).Add(wo).Normalize()
	denom := etaT*wi.Dot(h) + wo.Dot(h)
	if denom == 0 {
		return 0
	}
	jacobian := math.Abs(wo.Dot(h)) / (denom * denom)
	return beckmannD(n.AbsDot(h), m.Roughness) * n.AbsDot(h) * jacobian * (1 - f)
}

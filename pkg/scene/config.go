package scene

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arnegrid/photonforge/pkg/camera"
	"github.com/arnegrid/photonforge/pkg/core"
	"github.com/arnegrid/photonforge/pkg/geometry"
	"github.com/arnegrid/photonforge/pkg/light"
	"github.com/arnegrid/photonforge/pkg/loaders"
	"github.com/arnegrid/photonforge/pkg/material"
)

// RenderSettings carries the render-loop knobs a config file can set; it is
// deliberately plain data (not pkg/renderer.Renderer) so this package never
// imports the renderer, which itself imports scene.
type RenderSettings struct {
	Width       int
	Height      int
	Samples     int
	MaxBounces  int
	Filter      int
	Exposure    float64
	PhotonCount int
	PhotonPasses int
}

// Config is the root of a declarative scene description, following
// original_source/examples/*.rs in its choice of parameters and the
// intermediate-struct-then-validate pattern _examples/gazed-vu's
// load.Shd uses for its own YAML configs.
type Config struct {
	Render      renderConfig      `yaml:"render"`
	Camera      cameraConfig      `yaml:"camera"`
	Environment environmentConfig `yaml:"environment"`
	Objects     []objectConfig    `yaml:"objects"`
	Lights      []lightConfig     `yaml:"lights"`

	// dir is the directory the config file lives in, used to resolve mesh
	// file paths relative to the config rather than the process's working
	// directory. Unexported: never part of the YAML shape.
	dir string
}

type renderConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Samples      int     `yaml:"samples"`
	MaxBounces   int     `yaml:"max_bounces"`
	Filter       int     `yaml:"filter"`
	Exposure     float64 `yaml:"exposure"`
	PhotonCount  int     `yaml:"photon_count"`
	PhotonPasses int     `yaml:"photon_passes"`
}

type cameraConfig struct {
	Eye      [3]float64 `yaml:"eye"`
	Center   [3]float64 `yaml:"center"`
	Up       [3]float64 `yaml:"up"`
	FOVDeg   float64    `yaml:"fov_degrees"`
	Aperture float64    `yaml:"aperture"`
	Focus    [3]float64 `yaml:"focus"`
}

type environmentConfig struct {
	Color [3]float64 `yaml:"color"`
	HDRI  string     `yaml:"hdri"` // optional equirectangular image path; overrides color
}

type transformConfig struct {
	Translate [3]float64 `yaml:"translate"`
	Scale     [3]float64 `yaml:"scale"`
	RotateX   float64    `yaml:"rotate_x_degrees"`
	RotateY   float64    `yaml:"rotate_y_degrees"`
	RotateZ   float64    `yaml:"rotate_z_degrees"`
}

type materialConfig struct {
	Type      string     `yaml:"type"` // diffuse, specular, metallic, clear, transparent, light
	Color     [3]float64 `yaml:"color"`
	Roughness float64    `yaml:"roughness"`
	Index     float64    `yaml:"index"`
	Emittance float64    `yaml:"emittance"`
}

type objectConfig struct {
	Shape     string          `yaml:"shape"` // sphere, plane, cube, monomial_surface, mesh
	Transform transformConfig `yaml:"transform"`
	Material  materialConfig  `yaml:"material"`

	// Plane-specific
	Normal [3]float64 `yaml:"normal"`
	D      float64    `yaml:"d"`

	// MonomialSurface-specific
	Height float64 `yaml:"height"`
	Exp    float64 `yaml:"exp"`

	// Mesh-specific
	File string `yaml:"file"` // .obj or .stl
	MTL  string `yaml:"mtl"`  // optional companion .mtl, only for .obj
}

type lightConfig struct {
	Type      string     `yaml:"type"` // ambient, point, directional, object
	Color     [3]float64 `yaml:"color"`
	Position  [3]float64 `yaml:"position"`
	Direction [3]float64 `yaml:"direction"`
	Object    *objectConfig `yaml:"object"`
}

// LoadConfig reads and parses a YAML scene description from filename. It
// does not resolve shapes or materials; call Build on the result.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("scene: failed to read config %q: %w", filename, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("scene: failed to parse config %q: %w", filename, err)
	}
	cfg.dir = filepath.Dir(filename)
	return &cfg, nil
}

// Build resolves a parsed Config into a renderable Scene, a Camera, and the
// render settings the config requested, applying every config default: a
// zero width, height, sample count or bounce count falls back to New's
// defaults in pkg/renderer (800, 600, 16, 4), and a zero photon count or
// pass count to 100000 and 1. A zero filter radius stays 0, unlike New's 1.
func (c *Config) Build() (*Scene, camera.Camera, RenderSettings, error) {
	s := New()
	env, err := c.Environment.build(c.dir)
	if err != nil {
		return nil, camera.Camera{}, RenderSettings{}, fmt.Errorf("scene: environment: %w", err)
	}
	s.Environment = env

	for i, oc := range c.Objects {
		shape, mat, err := oc.build(c.dir)
		if err != nil {
			return nil, camera.Camera{}, RenderSettings{}, fmt.Errorf("scene: object %d: %w", i, err)
		}
		if shape != nil {
			s.Add(shape, mat)
		}
	}

	for i, lc := range c.Lights {
		l, err := lc.build(s, c.dir)
		if err != nil {
			return nil, camera.Camera{}, RenderSettings{}, fmt.Errorf("scene: light %d: %w", i, err)
		}
		s.AddLight(l)
	}

	cam := c.Camera.build()
	settings := c.Render.build()
	return s, cam, settings, nil
}

func vec(v [3]float64) core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// build resolves an environmentConfig into an Environment: an `hdri` path
// loads an equirectangular image via loaders.LoadImage and takes precedence
// over `color`, which otherwise produces a solid background.
func (ec environmentConfig) build(dir string) (Environment, error) {
	if ec.HDRI == "" {
		return SolidEnvironment(vec(ec.Color)), nil
	}
	img, err := loaders.LoadImage(filepath.Join(dir, ec.HDRI))
	if err != nil {
		return Environment{}, fmt.Errorf("failed to load hdri %q: %w", ec.HDRI, err)
	}
	return HDRIEnvironment(img.Width, img.Height, img.Pixels), nil
}

func (cc cameraConfig) build() camera.Camera {
	fov := cc.FOVDeg
	if fov == 0 {
		fov = 60
	}
	up := cc.Up
	if up == ([3]float64{}) {
		up = [3]float64{0, 1, 0}
	}
	cam := camera.LookAt(vec(cc.Eye), vec(cc.Center), vec(up), fov*math.Pi/180)
	if cc.Aperture > 0 {
		cam = cam.Focus(vec(cc.Focus), cc.Aperture)
	}
	return cam
}

func (rc renderConfig) build() RenderSettings {
	settings := RenderSettings{
		Width: rc.Width, Height: rc.Height, Samples: rc.Samples,
		MaxBounces: rc.MaxBounces, Filter: rc.Filter, Exposure: rc.Exposure,
		PhotonCount: rc.PhotonCount, PhotonPasses: rc.PhotonPasses,
	}
	if settings.Width == 0 {
		settings.Width = 800
	}
	if settings.Height == 0 {
		settings.Height = 600
	}
	if settings.Samples == 0 {
		settings.Samples = 16
	}
	if settings.MaxBounces == 0 {
		settings.MaxBounces = 4
	}
	if settings.PhotonCount == 0 {
		settings.PhotonCount = 100000
	}
	if settings.PhotonPasses == 0 {
		settings.PhotonPasses = 1
	}
	return settings
}

// DefaultRenderSettings returns the zero-valued render config's defaults,
// for callers (the CLI's --demo path) that build a Scene/Camera directly
// without going through a Config file.
func DefaultRenderSettings() RenderSettings {
	return renderConfig{}.build()
}

func (mc materialConfig) build() material.Material {
	color := vec(mc.Color)
	if color.IsZero() && mc.Type != "light" {
		color = core.NewVec3(1, 1, 1)
	}
	switch mc.Type {
	case "", "diffuse":
		return material.Diffuse(color)
	case "specular":
		return material.Specular(color, orDefault(mc.Roughness, 0.1))
	case "metallic":
		return material.Metallic(color, orDefault(mc.Roughness, 0.1))
	case "clear":
		return material.Clear(orDefault(mc.Index, 1.5), mc.Roughness)
	case "transparent":
		return material.TransparentTinted(color, orDefault(mc.Index, 1.5), mc.Roughness)
	case "light":
		return material.Light(color, orDefault(mc.Emittance, 1))
	default:
		return material.Diffuse(color)
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// build constructs the object's shape and material, transforming spheres,
// cubes and monomial surfaces through geometry.Transformed per the object's
// transform block. Planes take their placement from normal and d alone, and
// mesh objects carry their own world-space vertices from the loader; both
// ignore the transform block (baking a transform into a loaded mesh
// would require re-triangulating its normals).
func (oc objectConfig) build(dir string) (geometry.Shape, material.Material, error) {
	switch oc.Shape {
	case "sphere":
		return oc.transform().apply(geometry.NewSphere()), oc.Material.build(), nil
	case "cube":
		return oc.transform().apply(geometry.NewCube()), oc.Material.build(), nil
	case "plane":
		return geometry.NewPlane(vec(oc.Normal), oc.D), oc.Material.build(), nil
	case "monomial_surface":
		surf, err := geometry.NewMonomialSurface(oc.Height, orDefault(oc.Exp, 4))
		if err != nil {
			return nil, material.Material{}, err
		}
		return oc.transform().apply(surf), oc.Material.build(), nil
	case "mesh":
		mesh, err := oc.loadMesh(dir)
		if err != nil {
			return nil, material.Material{}, err
		}
		return mesh, oc.Material.build(), nil
	default:
		return nil, material.Material{}, fmt.Errorf("unsupported shape %q", oc.Shape)
	}
}

func (oc objectConfig) loadMesh(dir string) (*geometry.Mesh, error) {
	path := filepath.Join(dir, oc.File)
	switch filepath.Ext(path) {
	case ".obj":
		return loaders.LoadOBJ(path)
	case ".stl":
		return loaders.LoadSTL(path)
	default:
		return nil, fmt.Errorf("unsupported mesh file %q", oc.File)
	}
}

func (oc objectConfig) transform() shapeBuilder {
	return shapeBuilder{cfg: oc.Transform}
}

// shapeBuilder wraps a transformConfig, applying it to a sphere, cube or
// monomial surface via the generic Transformed wrapper (the generic
// parameter is inferred from the concrete shape passed to apply); any other
// shape is returned unchanged.
type shapeBuilder struct {
	cfg transformConfig
}

func applyTransform[T geometry.Shape](cfg transformConfig, shape T) geometry.Shape {
	t := geometry.NewTransformed(shape)
	scale := cfg.Scale
	if scale == ([3]float64{}) {
		scale = [3]float64{1, 1, 1}
	} else {
		t = t.Scale(scale[0], scale[1], scale[2])
	}
	if cfg.RotateX != 0 {
		t = t.RotateX(cfg.RotateX * math.Pi / 180)
	}
	if cfg.RotateY != 0 {
		t = t.RotateY(cfg.RotateY * math.Pi / 180)
	}
	if cfg.RotateZ != 0 {
		t = t.RotateZ(cfg.RotateZ * math.Pi / 180)
	}
	t = t.Translate(vec(cfg.Translate))
	return t
}

func (sb shapeBuilder) apply(shape geometry.Shape) geometry.Shape {
	switch s := shape.(type) {
	case geometry.Sphere:
		return applyTransform(sb.cfg, s)
	case geometry.Cube:
		return applyTransform(sb.cfg, s)
	case *geometry.MonomialSurface:
		return applyTransform(sb.cfg, s)
	default:
		return shape
	}
}

func (lc lightConfig) build(s *Scene, dir string) (light.Light, error) {
	switch lc.Type {
	case "ambient":
		return light.Ambient{Color: vec(lc.Color)}, nil
	case "point":
		return light.Point{Color: vec(lc.Color), Position: vec(lc.Position)}, nil
	case "directional":
		return light.Directional{Color: vec(lc.Color), Direction: vec(lc.Direction)}, nil
	case "object":
		if lc.Object == nil {
			return nil, fmt.Errorf("object light requires an `object` block")
		}
		shape, mat, err := lc.Object.build(dir)
		if err != nil {
			return nil, err
		}
		sampleable, ok := shape.(geometry.Sampleable)
		if !ok {
			return nil, fmt.Errorf("object light shape %q is not sampleable", lc.Object.Shape)
		}
		s.Add(shape, mat)
		return light.Object{Shape: sampleable, Material: mat}, nil
	default:
		return nil, fmt.Errorf("unsupported light type %q", lc.Type)
	}
}

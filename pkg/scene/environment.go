package scene

import (
	"math"

	"github.com/arnegrid/photonforge/pkg/core"
)

// Environment is the background radiance seen when a ray escapes the scene:
// either a flat solid color or an equirectangular HDRI lookup with bilinear
// interpolation.
type Environment struct {
	solid    core.Vec3
	isHDRI   bool
	width    int
	height   int
	pixels   []core.Vec3 // row-major, linear RGB
}

// SolidEnvironment returns a constant-color environment.
func SolidEnvironment(color core.Vec3) Environment {
	return Environment{solid: color}
}

// HDRIEnvironment returns an equirectangular environment backed by a
// width*height linear-RGB pixel buffer in row-major order.
func HDRIEnvironment(width, height int, pixels []core.Vec3) Environment {
	return Environment{isHDRI: true, width: width, height: height, pixels: pixels}
}

// Color returns the environment radiance seen along unit direction dir.
func (e Environment) Color(dir core.Vec3) core.Vec3 {
	if !e.isHDRI {
		return e.solid
	}

	d := dir.Normalize()
	azimuth := math.Atan2(d.Z, d.X) // [-pi, pi]
	polar := math.Acos(clamp(d.Y, -1, 1))

	u := (azimuth + math.Pi) / (2 * math.Pi)
	v := polar / math.Pi

	return e.bilinearSample(u, v)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (e Environment) at(x, y int) core.Vec3 {
	x = ((x % e.width) + e.width) % e.width
	if y < 0 {
		y = 0
	}
	if y >= e.height {
		y = e.height - 1
	}
	return e.pixels[y*e.width+x]
}

func (e Environment) bilinearSample(u, v float64) core.Vec3 {
	fx := u*float64(e.width) - 0.5
	fy := v*float64(e.height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := e.at(x0, y0)
	c10 := e.at(x0+1, y0)
	c01 := e.at(x0, y0+1)
	c11 := e.at(x0+1, y0+1)

	top := c00.Multiply(1 - tx).Add(c10.Multiply(tx))
	bottom := c01.Multiply(1 - tx).Add(c11.Multiply(tx))
	return top.Multiply(1 - ty).Add(bottom.Multiply(ty))
}

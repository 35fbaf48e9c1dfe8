// Package buffer implements the renderer's accumulating per-pixel sample
// buffer: box-filter reconstruction, 8-bit sRGB image conversion, and a
// sample-variance estimator.
package buffer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/arnegrid/photonforge/pkg/core"
)

// Buffer accumulates Monte-Carlo samples per pixel for later reconstruction.
type Buffer struct {
	Width, Height int
	FilterRadius  int
	samples       [][]core.Vec3 // row-major, one slice of samples per pixel
}

// New returns an empty buffer of the given dimensions.
func New(width, height, filterRadius int) *Buffer {
	return &Buffer{
		Width:        width,
		Height:       height,
		FilterRadius: filterRadius,
		samples:      make([][]core.Vec3, width*height),
	}
}

// AddSample appends one color sample at pixel (x, y). Calling it with an
// out-of-bounds pixel is a programmer error and panics, matching spec.md
// §4.10's "Pixel asked to render with no samples ⇒ buffer assertion
// failure" failure-semantics class.
func (b *Buffer) AddSample(x, y int, c core.Vec3) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		panic(fmt.Sprintf("buffer: AddSample out of bounds: (%d,%d) not in %dx%d", x, y, b.Width, b.Height))
	}
	idx := y*b.Width + x
	b.samples[idx] = append(b.samples[idx], c)
}

// AddSamples extends every pixel, in row-major order, by one sample each.
// len(samples) must equal Width*Height.
func (b *Buffer) AddSamples(samples []core.Vec3) {
	if len(samples) != b.Width*b.Height {
		panic(fmt.Sprintf("buffer: AddSamples length %d does not match %d pixels", len(samples), b.Width*b.Height))
	}
	for i, c := range samples {
		b.samples[i] = append(b.samples[i], c)
	}
}

func (b *Buffer) filteredColor(x, y int) core.Vec3 {
	r := b.FilterRadius
	sum := core.Vec3{}
	count := 0
	for dy := -r; dy <= r; dy++ {
		ny := y + dy
		if ny < 0 || ny >= b.Height {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			nx := x + dx
			if nx < 0 || nx >= b.Width {
				continue
			}
			px := b.samples[ny*b.Width+nx]
			for _, c := range px {
				sum = sum.Add(c)
				count++
			}
		}
	}
	if count == 0 {
		panic(fmt.Sprintf("buffer: pixel (%d,%d) found with no samples under filter radius %d", x, y, r))
	}
	return sum.Multiply(1.0 / float64(count))
}

// Image converts the buffer to an 8-bit sRGB image: every pixel's filtered
// color is clamped to [0,1], gamma-encoded at core.SRGBGamma, and scaled to
// [0,255].
func (b *Buffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.filteredColor(x, y)
			bytes := core.ColorBytes(c)
			img.Set(x, y, color.RGBA{R: bytes[0], G: bytes[1], B: bytes[2], A: 255})
		}
	}
	return img
}

// Variance returns the mean, over all pixels, of the sample variance of
// their color magnitude (sum-of-squares / (n-1)).
func (b *Buffer) Variance() float64 {
	total := 0.0
	counted := 0
	for _, px := range b.samples {
		n := len(px)
		if n < 2 {
			continue
		}
		mean := 0.0
		for _, c := range px {
			mean += c.Length()
		}
		mean /= float64(n)

		ss := 0.0
		for _, c := range px {
			d := c.Length() - mean
			ss += d * d
		}
		total += ss / float64(n-1)
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// SampleCount returns the number of samples accumulated at pixel (x, y).
func (b *Buffer) SampleCount(x, y int) int {
	return len(b.samples[y*b.Width+x])
}

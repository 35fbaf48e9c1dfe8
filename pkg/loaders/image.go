package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/arnegrid/photonforge/pkg/core"
)

// ImageData is a decoded equirectangular environment map: a width*height
// array of linear-RGB radiance values, row-major, ready for
// scene.HDRIEnvironment's bilinear lookup.
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// LoadImage decodes a PNG or JPEG equirectangular environment map and
// gamma-decodes it into linear RGB, since scene.HDRIEnvironment's bilinear
// sampler and the renderer's light transport both operate on linear
// radiance, not the sRGB-encoded bytes an 8-bit image stores.
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]; normalize to [0, 1] sRGB
			// then undo the gamma encoding to recover linear radiance.
			srgb := core.NewVec3(float64(r)/65535.0, float64(g)/65535.0, float64(b)/65535.0)
			pixels[y*width+x] = srgb.GammaCorrect(1.0 / core.SRGBGamma)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

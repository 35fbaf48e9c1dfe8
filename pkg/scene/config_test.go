package scene

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnegrid/photonforge/pkg/core"
)

func writeTestHDRI(t *testing.T, dir, name string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(1, 0, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestBuildResolvesHDRIEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeTestHDRI(t, dir, "env.png")

	cfgPath := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
environment:
  hdri: env.png
camera:
  eye: [0, 0, 5]
  center: [0, 0, 0]
`), 0o644))

	cfg, err := LoadConfig(cfgPath)
	require.NoError(t, err)

	s, _, _, err := cfg.Build()
	require.NoError(t, err)

	// The loaded environment should no longer be the zero-value solid
	// background: sampling it returns a color derived from the PNG.
	c := s.Environment.Color(core.NewVec3(1, 0, 0))
	assert.False(t, c.IsZero(), "expected a non-black HDRI sample, got %v", c)
}

func TestBuildFallsBackToSolidEnvironment(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
environment:
  color: [0.1, 0.2, 0.3]
camera:
  eye: [0, 0, 5]
  center: [0, 0, 0]
`), 0o644))

	cfg, err := LoadConfig(cfgPath)
	require.NoError(t, err)

	s, _, _, err := cfg.Build()
	require.NoError(t, err)

	assert.Equal(t, 0.1, s.Environment.Color(core.NewVec3(1, 0, 0)).X)
}

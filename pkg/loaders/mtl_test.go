package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMTLConvertsPhongParameters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.mtl")
	require.NoError(t, os.WriteFile(path, []byte(twoMaterialMTL), 0o644))

	materials, err := LoadMTL(path)
	require.NoError(t, err)
	require.Contains(t, materials, "red")
	require.Contains(t, materials, "glass")

	red := materials["red"]
	assert.Equal(t, 1.0, red.Color.X)
	assert.False(t, red.Transparent)
	assert.Greater(t, red.Roughness, 0.0)

	glass := materials["glass"]
	assert.True(t, glass.Transparent)
}

func TestLoadMTLRejectsPropertyBeforeNewmtl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mtl")
	require.NoError(t, os.WriteFile(path, []byte("Kd 1 0 0\n"), 0o644))

	_, err := LoadMTL(path)
	require.Error(t, err)
}

func TestLoadMTLFloorsIndexOfRefraction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ior.mtl")
	require.NoError(t, os.WriteFile(path, []byte("newmtl m\nNi 1.0\n"), 0o644))

	materials, err := LoadMTL(path)
	require.NoError(t, err)
	assert.Greater(t, materials["m"].Index, 1.0)
}

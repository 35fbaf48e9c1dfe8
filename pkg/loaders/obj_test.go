package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const triangleOBJ = `# a single triangle
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func TestLoadOBJSingleTriangle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	require.NoError(t, os.WriteFile(path, []byte(triangleOBJ), 0o644))

	mesh, err := LoadOBJ(path)
	require.NoError(t, err)
	require.NotNil(t, mesh)
}

const quadWithGroupsOBJ = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
usemtl red
f 1 2 3
f 1 3 4
`

const twoMaterialMTL = `
newmtl red
Kd 1.0 0.0 0.0
Ns 10.0
Ni 1.5
d 1.0
newmtl glass
Kd 1.0 1.0 1.0
Ni 1.5
d 0.1
`

func TestLoadOBJWithMTLGroupsByMaterial(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "quad.obj")
	mtlPath := filepath.Join(dir, "materials.mtl")
	require.NoError(t, os.WriteFile(objPath, []byte(quadWithGroupsOBJ), 0o644))
	require.NoError(t, os.WriteFile(mtlPath, []byte(twoMaterialMTL), 0o644))

	objects, err := LoadOBJWithMTL(objPath, mtlPath)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	require.Equal(t, 1.0, objects[0].Material.Color.X)
}

func TestLoadOBJWithMTLUnknownMaterialErrors(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "quad.obj")
	mtlPath := filepath.Join(dir, "materials.mtl")
	require.NoError(t, os.WriteFile(objPath, []byte(`
v 0 0 0
v 1 0 0
v 0 1 0
usemtl missing
f 1 2 3
`), 0o644))
	require.NoError(t, os.WriteFile(mtlPath, []byte(twoMaterialMTL), 0o644))

	_, err := LoadOBJWithMTL(objPath, mtlPath)
	require.Error(t, err)
}

func TestParseOBJIndexNegativeIsRelative(t *testing.T) {
	idx, err := parseOBJIndex("-1", 5)
	require.NoError(t, err)
	require.Equal(t, 4, idx)

	idx, err = parseOBJIndex("2", 5)
	require.NoError(t, err)
	require.Equal(t, 1, idx)
}

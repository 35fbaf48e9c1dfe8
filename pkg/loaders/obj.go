package loaders

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/arnegrid/photonforge/pkg/core"
	"github.com/arnegrid/photonforge/pkg/geometry"
	"github.com/arnegrid/photonforge/pkg/material"
)

// ObjObject pairs a mesh with the material it should be rendered with,
// produced by LoadOBJWithMTL for each distinct `usemtl` group in the file.
type ObjObject struct {
	Mesh     *geometry.Mesh
	Material material.Material
}

// LoadOBJ loads a Wavefront .OBJ file's geometry into a single Mesh,
// ignoring any `mtllib`/`usemtl` directives. Grounded on
// original_source/src/io.rs's load_obj.
func LoadOBJ(filename string) (*geometry.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open obj file: %w", err)
	}
	defer file.Close()

	var vertices, normals []core.Vec3
	var triangles []geometry.Triangle

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Fields(line)
		switch tokens[0] {
		case "v":
			v, err := parseOBJPoint(tokens)
			if err != nil {
				return nil, err
			}
			vertices = append(vertices, v)
		case "vn":
			vn, err := parseOBJPoint(tokens)
			if err != nil {
				return nil, err
			}
			normals = append(normals, vn)
		case "f":
			face, err := parseOBJFace(tokens, vertices, normals)
			if err != nil {
				return nil, err
			}
			triangles = append(triangles, face...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read obj file: %w", err)
	}

	return geometry.NewMesh(triangles), nil
}

// LoadOBJWithMTL loads a Wavefront .OBJ file's geometry, split into one
// ObjObject per contiguous `usemtl` group, resolved against the materials
// defined in the given .mtl file. Grounded on
// original_source/src/io.rs's load_obj_with_mtl.
func LoadOBJWithMTL(objFilename, mtlFilename string) ([]ObjObject, error) {
	materials, err := LoadMTL(mtlFilename)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(objFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to open obj file: %w", err)
	}
	defer file.Close()

	var vertices, normals []core.Vec3
	var objects []ObjObject
	var currentTriangles []geometry.Triangle
	currentMaterial := material.Diffuse(core.NewVec3(1, 1, 1))
	lastUseMtl := ""

	flush := func() {
		if len(currentTriangles) > 0 {
			objects = append(objects, ObjObject{Mesh: geometry.NewMesh(currentTriangles), Material: currentMaterial})
			currentTriangles = nil
		}
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Fields(line)
		switch tokens[0] {
		case "v":
			v, err := parseOBJPoint(tokens)
			if err != nil {
				return nil, err
			}
			vertices = append(vertices, v)
		case "vn":
			vn, err := parseOBJPoint(tokens)
			if err != nil {
				return nil, err
			}
			normals = append(normals, vn)
		case "f":
			face, err := parseOBJFace(tokens, vertices, normals)
			if err != nil {
				return nil, err
			}
			currentTriangles = append(currentTriangles, face...)
		case "usemtl":
			name := tokens[1]
			if name != lastUseMtl {
				flush()
				mat, ok := materials[name]
				if !ok {
					return nil, fmt.Errorf("could not find `usemtl %s` in material library", name)
				}
				currentMaterial = mat
				lastUseMtl = name
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read obj file: %w", err)
	}
	flush()

	return objects, nil
}

func parseOBJPoint(tokens []string) (core.Vec3, error) {
	if len(tokens) < 4 {
		return core.Vec3{}, fmt.Errorf("malformed obj vertex line: %q", strings.Join(tokens, " "))
	}
	x, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("failed to parse vertex: %w", err)
	}
	y, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("failed to parse vertex: %w", err)
	}
	z, err := strconv.ParseFloat(tokens[3], 64)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("failed to parse vertex: %w", err)
	}
	return core.NewVec3(x, y, z), nil
}

func parseOBJIndex(value string, length int) (int, error) {
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid obj index %q: %w", value, err)
	}
	if i > 0 {
		return i - 1, nil
	}
	return length + i, nil
}

// parseOBJFace fan-triangulates an `f` line (supporting v, v/vt, v//vn, and
// v/vt/vn forms) into one or more flat- or smooth-shaded triangles.
func parseOBJFace(tokens []string, vertices, normals []core.Vec3) ([]geometry.Triangle, error) {
	n := len(tokens) - 1
	if n < 3 {
		return nil, fmt.Errorf("face has fewer than 3 vertices: %q", strings.Join(tokens, " "))
	}

	vi := make([]int, n)
	vni := make([]int, n) // -1 means "no normal index"
	for i, vertex := range tokens[1:] {
		parts := strings.Split(vertex, "/")
		idx, err := parseOBJIndex(parts[0], len(vertices))
		if err != nil {
			return nil, err
		}
		vi[i] = idx

		vni[i] = -1
		if len(parts) == 3 && parts[2] != "" {
			nIdx, err := parseOBJIndex(parts[2], len(normals))
			if err != nil {
				return nil, err
			}
			vni[i] = nIdx
		}
	}

	var triangles []geometry.Triangle
	for i := 1; i < n-1; i++ {
		a, b, c := 0, i, i+1
		v1, v2, v3 := vertices[vi[a]], vertices[vi[b]], vertices[vi[c]]
		if vni[a] < 0 || vni[b] < 0 || vni[c] < 0 {
			triangles = append(triangles, geometry.NewTriangleFromVertices(v1, v2, v3))
		} else {
			triangles = append(triangles, geometry.Triangle{
				V1: v1, V2: v2, V3: v3,
				N1: normals[vni[a]], N2: normals[vni[b]], N3: normals[vni[c]],
			})
		}
	}
	return triangles, nil
}

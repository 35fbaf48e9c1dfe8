package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/arnegrid/photonforge/pkg/core"
	"github.com/arnegrid/photonforge/pkg/geometry"
)

// LoadSTL loads a mesh from an ASCII or binary .STL file, auto-detecting the
// format the same way as original_source/src/io.rs's load_stl: a binary
// file's 80-byte header is followed by a 4-byte little-endian triangle
// count, and the remainder is exactly 50 bytes per triangle; anything else
// is assumed to be the ASCII `solid ...` / `facet normal` text format.
func LoadSTL(filename string) (*geometry.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open stl file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stl file: %w", err)
	}
	size := info.Size()
	if size < 15 {
		return nil, fmt.Errorf("stl file is too short")
	}

	if size >= 84 {
		if _, err := file.Seek(80, io.SeekStart); err != nil {
			return nil, err
		}
		var countBuf [4]byte
		if _, err := io.ReadFull(file, countBuf[:]); err != nil {
			return nil, err
		}
		numTriangles := int64(binary.LittleEndian.Uint32(countBuf[:]))
		if size == 84+numTriangles*50 {
			if _, err := file.Seek(84, io.SeekStart); err != nil {
				return nil, err
			}
			return loadSTLBinary(file, numTriangles)
		}
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	var header [6]byte
	if _, err := io.ReadFull(file, header[:]); err != nil {
		return nil, err
	}
	if string(header[:]) != "solid " {
		return nil, fmt.Errorf("stl file format could not be determined")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return loadSTLASCII(file)
}

func loadSTLBinary(r io.Reader, numTriangles int64) (*geometry.Mesh, error) {
	triangles := make([]geometry.Triangle, 0, numTriangles)
	var buf [50]byte
	for i := int64(0); i < numTriangles; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("failed to read stl triangle %d: %w", i, err)
		}
		n := readSTLVec3(buf[0:12])
		v1 := readSTLVec3(buf[12:24])
		v2 := readSTLVec3(buf[24:36])
		v3 := readSTLVec3(buf[36:48])
		triangles = append(triangles, geometry.Triangle{V1: v1, V2: v2, V3: v3, N1: n, N2: n, N3: n})
	}
	return geometry.NewMesh(triangles), nil
}

func readSTLVec3(b []byte) core.Vec3 {
	x := float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])))
	y := float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])))
	z := float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])))
	return core.NewVec3(x, y, z)
}

func loadSTLASCII(r io.Reader) (*geometry.Mesh, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stl file: %w", err)
	}
	if len(lines) < 1 {
		return nil, fmt.Errorf("stl file has no content")
	}
	lines = lines[1:] // skip "solid <name>"

	var triangles []geometry.Triangle
	i := 0
	for i < len(lines) && strings.HasPrefix(lines[i], "facet normal") {
		n, err := parseSTLFloats(strings.TrimPrefix(lines[i], "facet normal "))
		if err != nil {
			return nil, err
		}
		i++ // "outer loop"
		i++

		var vs [3]core.Vec3
		for v := 0; v < 3; v++ {
			p, err := parseSTLFloats(strings.TrimPrefix(lines[i], "vertex "))
			if err != nil {
				return nil, err
			}
			vs[v] = p
			i++
		}
		i++ // "endloop"
		i++ // "endfacet"

		triangles = append(triangles, geometry.Triangle{V1: vs[0], V2: vs[1], V3: vs[2], N1: n, N2: n, N3: n})
	}

	return geometry.NewMesh(triangles), nil
}

func parseSTLFloats(s string) (core.Vec3, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("malformed stl vector: %q", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid stl float %q: %w", p, err)
		}
		vals[i] = v
	}
	return core.NewVec3(vals[0], vals[1], vals[2]), nil
}
